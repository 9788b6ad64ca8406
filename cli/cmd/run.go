package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/ardnew/protofix/cli/progress"
	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/log"
)

// Run applies the enabled rules to mods and rewrites the changed files.
type Run struct {
	Fix fixFlags `embed:""`

	Progress bool `help:"Display a progress bar instead of per-prototype logs."`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()
	if r.Progress {
		logger = logger.Wrap(log.WithLevel(log.LevelError))
	}

	j, err := r.Fix.job(ctx, logger)
	if err != nil {
		return err
	}

	start := time.Now()

	var sum fixer.Summary

	if r.Progress {
		total, err := j.fixer(nil).Count(j.units)
		if err != nil {
			return err
		}

		sum, err = progress.Run(ctx, total,
			func(ctx context.Context, report func(fixer.FileResult)) (fixer.Summary, error) {
				return j.fixer(report).Run(ctx, j.units...)
			})
		if err != nil {
			return ErrRunFailed.Wrap(err)
		}
	} else {
		sum, err = j.fixer(nil).Run(ctx, j.units...)
		if err != nil {
			return ErrRunFailed.Wrap(err)
		}
	}

	log.InfoContext(ctx, "run complete",
		slog.Int("files", sum.Files),
		slog.Int("changed", sum.Changed),
		slog.Int("written", sum.Written),
		slog.Int("skipped", sum.Skipped),
		slog.Int("applied", sum.Counts.Applied),
		slog.Int("failed", sum.Counts.Failed),
		slog.Duration("elapsed", time.Since(start)))

	report(stdoutFrom(ctx), sum, r.Fix.DryRun)

	return j.finish(start, r.Fix.Metrics)
}
