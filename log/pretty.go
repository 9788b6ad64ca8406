package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. Styles are bound to a
// renderer for the output writer, so color is dropped when the writer is not
// a terminal.
type palette struct {
	key, str, num, yes, no, dur, time, null lipgloss.Style

	trace, debug, info, warn, error lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		time:  fg("4"),
		null:  fg("8"),
		trace: fg("8").Bold(true),
		debug: fg("4").Bold(true),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) string {
	s := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.error.Render(s)
	case l >= slog.LevelWarn:
		return p.warn.Render(s)
	case l >= slog.LevelInfo:
		return p.info.Render(s)
	case l >= slog.LevelDebug:
		return p.debug.Render(s)
	default:
		return p.trace.Render(s)
	}
}

// prettyBase is the state shared by both pretty handlers.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	pal        palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
}

func newPrettyBase(w io.Writer, opts *slog.HandlerOptions, ft FormatTime) prettyBase {
	return prettyBase{
		opts:       *opts,
		formatTime: ft,
		pal:        newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (b prettyBase) enabled(level slog.Level) bool {
	lvl := slog.LevelInfo
	if b.opts.Level != nil {
		lvl = b.opts.Level.Level()
	}

	return level >= lvl
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	for _, a := range attrs {
		a.Key = b.group + a.Key
		b.attrs = append(b.attrs[:len(b.attrs):len(b.attrs)], a)
	}

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.group += name + "."
	}

	return b
}

// fields flattens the record attributes, prefixing group names.
func (b prettyBase) fields(r slog.Record) []slog.Attr {
	out := append([]slog.Attr(nil), b.attrs...)

	var add func(prefix string, a slog.Attr)

	add = func(prefix string, a slog.Attr) {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() == slog.KindGroup {
			if a.Key != "" {
				prefix += a.Key + "."
			}

			for _, g := range a.Value.Group() {
				add(prefix, g)
			}

			return
		}

		if a.Key == "" {
			return
		}

		a.Key = prefix + a.Key
		out = append(out, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		add(b.group, a)

		return true
	})

	return out
}

func (b prettyBase) source(r slog.Record) string {
	if !b.opts.AddSource {
		return ""
	}

	if src := r.Source(); src != nil && src.File != "" {
		return src.File + ":" + strconv.Itoa(src.Line)
	}

	return ""
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized line per record:
//
//	TIME LEVEL message key=value ...
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions, ft FormatTime) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts, ft)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	sep := func() {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
	}

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.pal.time.Render(ts))
		}
	}

	sep()
	buf.WriteString(h.pal.level(r.Level))

	if src := h.source(r); src != "" {
		sep()
		buf.WriteString(h.pal.key.Render(src))
	}

	sep()
	buf.WriteString(r.Message)

	for _, a := range h.fields(r) {
		sep()
		buf.WriteString(h.pal.key.Render(a.Key + "="))
		buf.WriteString(h.value(a.Value))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}

		return h.pal.str.Render(s)
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.pal.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Render("true")
		}

		return h.pal.no.Render("false")
	case slog.KindDuration:
		return h.pal.dur.Render(v.Duration().String())
	case slog.KindTime:
		return h.pal.time.Render(h.formatTime(v.Time()))
	case slog.KindAny:
		if v.Any() == nil {
			return h.pal.null.Render("<nil>")
		}

		if err, ok := v.Any().(error); ok {
			return h.pal.no.Render(strconv.Quote(err.Error()))
		}
	}

	return h.pal.str.Render(fmt.Sprint(v.Any()))
}

// prettyJSONHandler writes each record as an indented JSON object with
// colorized keys.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions, ft FormatTime) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts, ft)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	first := true
	field := func(key string, value any, style lipgloss.Style) {
		if !first {
			buf.WriteString(",\n")
		}

		first = false

		enc, err := json.Marshal(value)
		if err != nil {
			enc, _ = json.Marshal(fmt.Sprint(value))
		}

		buf.WriteString("  ")
		buf.WriteString(h.pal.key.Render(strconv.Quote(key)))
		buf.WriteString(": ")
		buf.WriteString(style.Render(string(enc)))
	}

	buf.WriteString("{\n")

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			field(slog.TimeKey, ts, h.pal.time)
		}
	}

	field(slog.LevelKey, strings.ToUpper(Level(r.Level).String()), h.pal.info)

	if src := h.source(r); src != "" {
		field(slog.SourceKey, src, h.pal.key)
	}

	field(slog.MessageKey, r.Message, lipgloss.NewStyle())

	for _, a := range h.fields(r) {
		v := a.Value.Any()
		style := h.pal.str

		switch a.Value.Kind() {
		case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
			style = h.pal.num
		case slog.KindBool:
			style = h.pal.yes
		case slog.KindDuration:
			v, style = a.Value.Duration().String(), h.pal.dur
		case slog.KindTime:
			v, style = h.formatTime(a.Value.Time()), h.pal.time
		case slog.KindAny:
			if err, ok := v.(error); ok {
				v, style = err.Error(), h.pal.no
			}
		}

		field(a.Key, v, style)
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}
