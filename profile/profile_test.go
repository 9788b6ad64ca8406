package profile

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestProfiler(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    []Option
		wantDir string
	}{
		{name: "empty"},
		{name: "dir", opts: []Option{WithDir(dir)}, wantDir: dir},
		{
			name:    "run",
			opts:    []Option{WithDir(dir), WithRun("r1"), WithMode("cpu"), nil},
			wantDir: filepath.Join(dir, "r1"),
		},
		{name: "unknown mode", opts: []Option{WithMode("nope"), WithQuiet(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.opts...)

			if got := p.Dir(); got != tt.wantDir {
				t.Errorf("expected dir %q, got %q", tt.wantDir, got)
			}

			if want := slices.Contains(Modes(), p.Mode()); p.Enabled() != want {
				t.Errorf("expected Enabled() = %v for mode %q", want, p.Mode())
			}

			if p.Mode() == "cpu" {
				return
			}

			// Disabled profilers are safe to start and stop.
			p.Start().Stop()
		})
	}
}
