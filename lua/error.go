package lua

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse          = NewError("parse error")
	ErrReadInput      = NewError("failed to read input")
	ErrUnterminated   = NewError("unterminated token")
	ErrInvalidNumber  = NewError("malformed number")
	ErrInvalidChar    = NewError("unexpected character")
	ErrUnbalanced     = NewError("unbalanced brackets")
	ErrExpectedExpr   = NewError("expected expression")
	ErrExpectedSymbol = NewError("expected symbol")
	ErrInvalidString  = NewError("invalid string literal")
)

// Error represents an error with optional source position and structured
// logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	err    error
	pos    *Position
	source string
	attrs  []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// When both a position and the source text are known, the offending line is
// appended with a caret under the reported column.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.pos != nil {
		part = append(part, "line "+strconv.Itoa(e.pos.Line)+", column "+
			strconv.Itoa(e.pos.Column))
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")

	if snippet := e.snippet(); snippet != "" {
		msg += "\n" + snippet
	}

	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil {
		return false
	}

	return t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Position returns the source position recorded with the error, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// WithPosition records the source position of the error.
func (e *Error) WithPosition(pos Position) *Error {
	c := *e
	c.pos = &pos

	return &c
}

// WithSource records the source text used to render a snippet.
func (e *Error) WithSource(source string) *Error {
	c := *e
	c.source = source

	return &c
}

func (e *Error) snippet() string {
	if e.pos == nil || e.source == "" {
		return ""
	}

	lines := strings.Split(e.source, "\n")
	if e.pos.Line < 1 || e.pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(strings.TrimRight(lines[e.pos.Line-1], "\r"))
	sb.WriteByte('\n')

	// 2 leading spaces + " | "
	padding := strings.Repeat(" ", len(num)+5)
	if e.pos.Column > 0 {
		padding += strings.Repeat(" ", e.pos.Column-1)
	}

	sb.WriteString(padding)
	sb.WriteByte('^')

	return sb.String()
}
