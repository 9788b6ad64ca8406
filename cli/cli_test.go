package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/protofix/cli/cmd"
	"github.com/ardnew/protofix/pkg"
	"github.com/ardnew/protofix/rule"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "protofix-cli")
	if err != nil {
		panic(err)
	}

	os.Setenv(pkg.EnvName("config_dir"), filepath.Join(dir, "config"))
	os.Setenv(pkg.EnvName("cache_dir"), filepath.Join(dir, "cache"))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

func runArgs(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	exit := func(code int) { t.Fatalf("unexpected exit with code %d", code) }

	err := run(context.Background(), exit, strings.NewReader(stdin), &out, args...)

	return out.String(), err
}

func TestRun_Rules(t *testing.T) {
	out, err := runArgs(t, "", "rules", "--enable=recipe")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "recipe") || !strings.Contains(out, "fluid_boxes") {
		t.Errorf("unexpected rules listing\n%s", out)
	}

	_, err = runArgs(t, "", "rules", "--enable=recpie")
	if !errors.Is(err, rule.ErrUnknownRule) {
		t.Errorf("expected ErrUnknownRule, got %v", err)
	}
}

func TestRun_Fmt(t *testing.T) {
	out, err := runArgs(t, "x={1,2}", "fmt", "-")
	if err != nil {
		t.Fatal(err)
	}

	if out != "x = { 1, 2 }\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRun_DefaultCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.lua")

	src := "data:extend({{type = \"offshore-pump\", name = \"p\"}})\n"
	if err := os.WriteFile(file, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runArgs(t, "", dir, "--enable=offshore_pump", "--dry-run"); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != src {
		t.Errorf("expected dry run to leave the file, got %q", got)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	if err := mkdirAllRequired(); err != nil {
		t.Fatal(err)
	}

	conf := configPath(baseConfig)

	if err := os.WriteFile(conf, []byte("rules:\n  enable: [all]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { os.Remove(conf) })

	out, err := runArgs(t, "", "rules")
	if err != nil {
		t.Fatal(err)
	}

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.HasPrefix(line, "+") {
			t.Errorf("expected every rule enabled, got %q", line)
		}
	}
}

func TestRun_Init(t *testing.T) {
	conf := configPath(baseConfig)

	t.Cleanup(func() { os.Remove(conf) })

	if _, err := runArgs(t, "", "init"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(conf)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"log-level:", "\nrun:\n", "  skip-dir:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %q in\n%s", want, data)
		}
	}

	if _, err := runArgs(t, "", "init"); !errors.Is(err, cmd.ErrFileExists) {
		t.Errorf("expected ErrFileExists, got %v", err)
	}
}

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() {
		var defaults logConfig

		defaults.scan([]string{"--log-level=info", "--log-format=text", "--log-pretty", "--no-log-caller"})
	})

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned",
			args: []string{"run", "--log-level=debug", "--log-format=json"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "separate values",
			args: []string{"--log-level", "warn", "fmt", "--log-format", "text"},
			want: logConfig{Level: "warn", Format: "text"},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-caller=false", "--no-log-pretty=false", "--log-pretty=maybe"},
			want: logConfig{Pretty: true},
		},
		{
			name: "stops at separator",
			args: []string{"--", "--log-level=debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
