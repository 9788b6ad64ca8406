//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/pkg"
	"github.com/ardnew/protofix/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling into a directory named after the run, if a mode is
// set, and returns the function that stops it.
func (f pprofConfig) start(ctx context.Context, runID string) (stop func()) {
	p := profile.New(
		profile.WithMode(f.Mode),
		profile.WithDir(f.Dir),
		profile.WithRun(runID),
		profile.WithQuiet(true),
	)
	if !p.Enabled() {
		return func() {}
	}

	attrs := []slog.Attr{slog.String("mode", p.Mode()), slog.String("dir", p.Dir())}

	log.DebugContext(ctx, "pprof start", attrs...)

	profiler := p.Start()

	return func() {
		profiler.Stop()
		log.InfoContext(ctx, "profile written", attrs...)
	}
}
