package pkg

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
)

// Error is an error with a message, an optional cause, and attributes for
// structured logging. It implements [slog.LogValuer].
//
// Errors made with [NewError] serve as sentinels: every Error derived from
// one with [Error.Wrap] or [Error.With] matches it under [errors.Is].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	root  *Error
}

// NewError returns a sentinel Error with the given message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.root = e

	return e
}

// WrapError returns err as an *Error, wrapping it if it is not one already.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error returns "<msg>: <cause>", omitting whichever part is empty.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e derives from the same sentinel as target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.root != nil && e.root == t.root
}

// Attrs returns the attributes attached with [Error.With], outermost last.
func (e *Error) Attrs() []slog.Attr {
	var attrs []slog.Attr

	var inner *Error
	if errors.As(e.err, &inner) {
		attrs = inner.Attrs()
	}

	return append(attrs, e.attrs...)
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs added.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(slices.Clip(e.attrs), attrs...)

	return &c
}
