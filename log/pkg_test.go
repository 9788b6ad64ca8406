package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_UsesDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false)))

	ctx := context.Background()

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", func(m string, a ...slog.Attr) { TraceContext(ctx, m, a...) }, "TRACE"},
		{"DebugContext", func(m string, a ...slog.Attr) { DebugContext(ctx, m, a...) }, "DEBUG"},
		{"InfoContext", func(m string, a ...slog.Attr) { InfoContext(ctx, m, a...) }, "INFO"},
		{"WarnContext", func(m string, a ...slog.Attr) { WarnContext(ctx, m, a...) }, "WARN"},
		{"ErrorContext", func(m string, a ...slog.Attr) { ErrorContext(ctx, m, a...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			got := buf.String()
			for _, s := range []string{"package message", `"level":"` + tt.level + `"`, `"key":"value"`} {
				if !strings.Contains(got, s) {
					t.Errorf("expected %q in %q", s, got)
				}
			}
		})
	}
}

func TestPackage_Config(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelDebug), WithPretty(false))
	With(slog.String("run", "abc")).Debug("configured")

	if got := buf.String(); !strings.Contains(got, "configured") || !strings.Contains(got, "run=abc") {
		t.Errorf("unexpected output %q", got)
	}
}
