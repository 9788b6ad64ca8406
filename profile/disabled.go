//go:build !pprof

package profile

// Modes returns no modes when built without the pprof build tag.
func Modes() []string { return nil }

func modeOption(string) (struct{}, bool) { return struct{}{}, false }

func start(Profiler) interface{ Stop() } { return ignore{} }
