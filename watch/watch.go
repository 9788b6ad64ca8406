package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrWatch  = pkg.NewError("failed to watch")
	ErrClosed = pkg.NewError("watcher closed")
)

// DefaultInterval is the quiet period after the last event before the
// handler runs.
const DefaultInterval = 200 * time.Millisecond

// Handler receives the files that changed during one quiet period, sorted.
type Handler func(ctx context.Context, paths []string)

// Watcher reports changed source files below a set of directories.
type Watcher struct {
	logger   log.Logger
	exts     []string
	skipDirs []string
	interval time.Duration
}

// Option applies a configuration option to a [Watcher].
type Option func(*Watcher)

// WithLogger sets the logger that reports events.
func WithLogger(l log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithInterval sets the quiet period before the handler runs.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithExtensions sets the file extensions that are reported.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) { w.exts = exts }
}

// WithSkipDirs sets the directory names that are not watched.
func WithSkipDirs(names ...string) Option {
	return func(w *Watcher) { w.skipDirs = names }
}

// New returns a Watcher with the given options.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		exts:     []string{".lua"},
		interval: DefaultInterval,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	return w
}

// Watch watches every directory below roots, and calls fn with the files
// that were written or created once no event arrived for the configured
// interval. New directories are watched as they appear.
//
// Watch blocks until ctx is done, and then returns nil. fn runs on the
// calling goroutine; events that arrive meanwhile are delivered in the
// next batch.
func (w *Watcher) Watch(ctx context.Context, fn Handler, roots ...string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer fw.Close()

	for _, root := range roots {
		if err := w.add(fw, root); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "watching",
		slog.Any("roots", roots),
		slog.Duration("interval", w.interval))

	timer := time.NewTimer(w.interval)
	timer.Stop()

	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return ErrClosed
			}

			if ev.Has(fsnotify.Create) && w.isDir(ev.Name) {
				if err := w.add(fw, ev.Name); err != nil {
					w.logger.WarnContext(ctx, "not watched", slog.Any("error", err))
				}

				continue
			}

			if !w.relevant(ev) {
				continue
			}

			w.logger.TraceContext(ctx, "event",
				slog.String("file", ev.Name), slog.String("op", ev.Op.String()))

			pending[ev.Name] = struct{}{}

			timer.Reset(w.interval)

		case err, ok := <-fw.Errors:
			if !ok {
				return ErrClosed
			}

			w.logger.ErrorContext(ctx, "watch error", slog.Any("error", err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}

			slices.Sort(paths)
			clear(pending)

			fn(ctx, paths)
		}
	}
}

// add watches dir and its sub-directories.
func (w *Watcher) add(fw *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && w.skipped(d.Name()) {
			return filepath.SkipDir
		}

		return fw.Add(path)
	})
	if err != nil {
		return ErrWatch.Wrap(err).With(slog.String("dir", dir))
	}

	return nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}

	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}

	return slices.Contains(w.exts, filepath.Ext(ev.Name))
}

func (w *Watcher) skipped(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(w.skipDirs, name)
}

func (w *Watcher) isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir() && !w.skipped(info.Name())
}
