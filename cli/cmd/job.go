package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/metrics"
	"github.com/ardnew/protofix/rule"
)

// fixFlags are shared by the commands that apply rules.
type fixFlags struct {
	Select  ruleFlags   `embed:""`
	Locales localeFlags `embed:""`
	Format  formatFlags `embed:""`
	Walk    walkFlags   `embed:""`

	DryRun    bool   `help:"Report changes without writing files." short:"n"`
	KeepGoing bool   `help:"Skip files that cannot be read, parsed or fixed." short:"k"`
	Metrics   string `help:"Write Prometheus metrics to a textfile collector file." placeholder:"FILE" type:"path"`

	Paths []string `arg:"" default:"." help:"Mod directories, directories of mods, or Lua files." type:"path"`
}

// job holds what a run needs, built once from fixFlags.
type job struct {
	logger log.Logger
	engine *rule.Engine
	rec    *metrics.Recorder
	units  []fixer.Unit
	opts   []fixer.Option
}

func (f *fixFlags) job(ctx context.Context, logger log.Logger) (*job, error) {
	c, err := f.Select.catalog()
	if err != nil {
		return nil, err
	}

	ix, err := f.Locales.load(ctx, logger)
	if err != nil {
		return nil, err
	}

	units, err := discover(f.Paths)
	if err != nil {
		return nil, err
	}

	j := &job{logger: logger, units: units}

	engOpts := []rule.Option{rule.WithLogger(logger)}

	if f.Metrics != "" {
		j.rec = metrics.New(nil)
		engOpts = append(engOpts, rule.WithObserver(j.rec))
	}

	j.engine = rule.NewEngine(c, engOpts...)
	j.opts = []fixer.Option{
		fixer.WithLocales(ix),
		fixer.WithLogger(logger),
		fixer.WithSkipDirs(f.Walk.SkipDir...),
		fixer.WithFormat(f.Format.options()...),
		fixer.WithDryRun(f.DryRun),
		fixer.WithKeepGoing(f.KeepGoing),
	}

	var enabled []string
	for r := range c.Enabled() {
		enabled = append(enabled, r.Name())
	}

	logger.DebugContext(ctx, "rules ready",
		slog.Any("enabled", enabled),
		slog.Int("locales", ix.Len()),
		slog.Int("units", len(units)))

	return j, nil
}

// fixer returns a Fixer that also reports each file to report, if set.
func (j *job) fixer(report func(fixer.FileResult)) *fixer.Fixer {
	observe := func(r fixer.FileResult) {
		if j.rec != nil {
			j.rec.File(r)
		}

		if report != nil {
			report(r)
		}
	}

	return fixer.New(j.engine, append(j.opts, fixer.WithFileObserver(observe))...)
}

// finish exports the metrics of a run that started at start.
func (j *job) finish(start time.Time, file string) error {
	if j.rec == nil {
		return nil
	}

	j.rec.Finish(start)

	if err := j.rec.WriteFile(file); err != nil {
		return ErrWriteMetrics.Wrap(err).With(slog.String("file", file))
	}

	return nil
}

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true)
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// report writes a one-line summary of a run to w.
func report(w io.Writer, sum fixer.Summary, dryRun bool) {
	written, verb := sum.Written, "written"
	if dryRun {
		written, verb = sum.Changed, "would change"
	}

	skipped := countStyle.Render(fmt.Sprint(sum.Skipped))
	if sum.Skipped > 0 {
		skipped = warnStyle.Render(fmt.Sprint(sum.Skipped))
	}

	failed := countStyle.Render(fmt.Sprint(sum.Counts.Failed))
	if sum.Counts.Failed > 0 {
		failed = warnStyle.Render(fmt.Sprint(sum.Counts.Failed))
	}

	fmt.Fprintf(w, "%s %s files, %s %s, %s skipped %s %s fixed, %s failed\n",
		labelStyle.Render("protofix:"),
		countStyle.Render(fmt.Sprint(sum.Files)),
		countStyle.Render(fmt.Sprint(written)), verb,
		skipped,
		dimStyle.Render("|"),
		countStyle.Render(fmt.Sprint(sum.Counts.Applied)),
		failed)
}
