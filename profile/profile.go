package profile

import "path/filepath"

// Profiler describes the profile written during one run.
type Profiler struct {
	mode  string
	dir   string
	run   string
	quiet bool
}

// Option applies a configuration option to a [Profiler].
type Option func(Profiler) Profiler

// WithMode selects one of [Modes]. An empty or unknown mode disables
// profiling.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.mode = mode

		return p
	}
}

// WithDir sets the directory below which profiles are written.
func WithDir(dir string) Option {
	return func(p Profiler) Profiler {
		p.dir = dir

		return p
	}
}

// WithRun writes the profile into a sub-directory named after the run, so
// that consecutive runs do not overwrite each other.
func WithRun(id string) Option {
	return func(p Profiler) Profiler {
		p.run = id

		return p
	}
}

// WithQuiet suppresses the messages of the profiler.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.quiet = quiet

		return p
	}
}

// New returns a Profiler configured by opts.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		if opt != nil {
			p = opt(p)
		}
	}

	return p
}

// Mode returns the configured mode.
func (p Profiler) Mode() string { return p.mode }

// Dir returns the directory the profile is written to.
func (p Profiler) Dir() string {
	if p.run == "" {
		return p.dir
	}

	return filepath.Join(p.dir, p.run)
}

// Enabled reports whether Start will profile, which requires the pprof
// build tag and a supported mode.
func (p Profiler) Enabled() bool {
	_, ok := modeOption(p.mode)

	return ok
}

// Start starts profiling and returns its controller. Stop writes the
// profile. Both are safe to call when profiling is disabled.
func (p Profiler) Start() interface{ Stop() } {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
