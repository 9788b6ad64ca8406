//go:build pprof

package profile

import (
	"maps"
	"slices"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes in sorted order.
func Modes() []string {
	return slices.Sorted(maps.Keys(modes))
}

func modeOption(mode string) (func(*profile.Profile), bool) {
	fn, ok := modes[mode]

	return fn, ok
}

// start starts the profiler. Interrupts are handled by the caller's
// context, so the profiler does not install its own signal hook.
func start(p Profiler) interface{ Stop() } {
	fn, _ := modeOption(p.mode)

	opts := []func(*profile.Profile){fn, profile.NoShutdownHook}

	if dir := p.Dir(); dir != "" {
		opts = append(opts, profile.ProfilePath(dir))
	}

	if p.quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
