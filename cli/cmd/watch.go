package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/watch"
)

// Watch applies the enabled rules to files again whenever they change.
type Watch struct {
	Fix fixFlags `embed:""`

	Interval time.Duration `default:"${watchInterval}" help:"Quiet period after the last change before files are processed."`
	Initial  bool          `default:"true"             help:"Process every file once before watching."                         negatable:""`
}

// Run executes the watch command. It returns when ctx is done.
func (w *Watch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	j, err := w.Fix.job(ctx, logger)
	if err != nil {
		return err
	}

	fx := j.fixer(nil)

	if w.Initial {
		start := time.Now()

		sum, err := fx.Run(ctx, j.units...)
		if err != nil {
			return ErrRunFailed.Wrap(err)
		}

		report(stdoutFrom(ctx), sum, w.Fix.DryRun)

		if err := j.finish(start, w.Fix.Metrics); err != nil {
			return err
		}
	}

	handle := func(ctx context.Context, paths []string) {
		var batch []fixer.Unit

		for _, path := range paths {
			if u, ok := fx.Locate(j.units, path); ok {
				batch = append(batch, fixer.Unit{Path: path, Mod: u.Mod})
			}
		}

		if len(batch) == 0 {
			return
		}

		start := time.Now()

		sum, err := fx.Run(ctx, batch...)
		if err != nil {
			logger.ErrorContext(ctx, "changes not processed", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "processed changes",
			slog.Int("files", sum.Files),
			slog.Int("written", sum.Written),
			slog.Int("applied", sum.Counts.Applied))

		if err := j.finish(start, w.Fix.Metrics); err != nil {
			logger.ErrorContext(ctx, "metrics not written", slog.Any("error", err))
		}
	}

	return watch.New(
		watch.WithLogger(logger),
		watch.WithInterval(w.Interval),
		watch.WithSkipDirs(w.Fix.Walk.SkipDir...),
		watch.WithExtensions(fixer.Ext),
	).Watch(ctx, handle, watchRoots(j.units)...)
}

// watchRoots returns the directories to watch for units: the unit itself
// for directories and the containing directory for files.
func watchRoots(units []fixer.Unit) []string {
	var roots []string

	for _, u := range units {
		dir := u.Path
		if !u.Dir {
			dir = filepath.Dir(u.Path)
		}

		if !slices.Contains(roots, dir) {
			roots = append(roots, dir)
		}
	}

	return roots
}
