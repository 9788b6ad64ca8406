// Package profile provides optional runtime profiling for protofix.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind the "pprof" build
// tag. Without the tag, [Modes] is empty and [Profiler.Start] returns a
// no-op controller.
//
// # Available Profiling Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
// A [Profiler] is configured with options and started with
// [Profiler.Start]:
//
//	p := profile.New(
//		profile.WithMode("cpu"),
//		profile.WithDir("/tmp/profiles"),
//		profile.WithRun(runID),
//	)
//	defer p.Start().Stop()
//
// The protofix command exposes the same settings as flags when built with
// the pprof tag:
//
//	go build -tags pprof -o protofix .
//	protofix --pprof-mode cpu run ~/factorio/mods
//	go tool pprof ./protofix ~/.cache/protofix/pprof/<run>/cpu.pprof
//
// Large mod collections are dominated by parsing and formatting; a clock
// profile also shows time spent waiting on the file system.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
