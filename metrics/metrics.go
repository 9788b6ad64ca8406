package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/pkg"
	"github.com/ardnew/protofix/rule"
)

// Namespace prefixes every metric name.
const Namespace = "protofix"

// ErrWrite is returned when the metrics cannot be exported.
var ErrWrite = pkg.NewError("failed to write metrics")

// File results reported by the files_total counter.
const (
	FileUnchanged = "unchanged"
	FileChanged   = "changed"
	FileWritten   = "written"
	FileSkipped   = "skipped"
)

// Recorder counts rule outcomes and processed files.
//
// A Recorder is an [rule.Observer]; pass [Recorder.File] to
// [fixer.WithFileObserver] to count files.
type Recorder struct {
	registry *prometheus.Registry
	rules    *prometheus.CounterVec
	files    *prometheus.CounterVec
	duration prometheus.Gauge
	last     prometheus.Gauge
}

// New returns a Recorder whose metrics are registered with reg. A nil reg
// selects a new, private registry.
func New(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		rules: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "rules_total",
				Help:      "Rules applied to or failed on prototypes, by rule and outcome.",
			},
			[]string{"rule", "outcome", "mod"},
		),
		files: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "files_total",
				Help:      "Source files processed, by result.",
			},
			[]string{"result"},
		),
		duration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run in seconds.",
		}),
		last: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe counts a rule event.
func (r *Recorder) Observe(e rule.Event) {
	r.rules.WithLabelValues(e.Rule, e.Outcome.String(), e.Mod).Inc()
}

// File counts a processed file.
func (r *Recorder) File(res fixer.FileResult) {
	r.files.WithLabelValues(FileResult(res)).Inc()
}

// Finish records the duration of a run that started at start.
func (r *Recorder) Finish(start time.Time) {
	now := time.Now()

	r.duration.Set(now.Sub(start).Seconds())
	r.last.Set(float64(now.Unix()))
}

// WriteFile writes the metrics in the text exposition format to name, as
// read by the node exporter's textfile collector.
func (r *Recorder) WriteFile(name string) error {
	if err := prometheus.WriteToTextfile(name, r.registry); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// FileResult returns the files_total label of res.
func FileResult(res fixer.FileResult) string {
	switch {
	case res.Err != nil:
		return FileSkipped
	case res.Written:
		return FileWritten
	case res.Changed:
		return FileChanged
	default:
		return FileUnchanged
	}
}
