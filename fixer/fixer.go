package fixer

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/protofix/locale"
	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/lua"
	"github.com/ardnew/protofix/pkg"
	"github.com/ardnew/protofix/rule"
	"github.com/ardnew/protofix/value"
)

// Predefined errors (sentinel values).
var (
	ErrRead   = pkg.NewError("failed to read source")
	ErrParse  = pkg.NewError("failed to parse source")
	ErrVerify = pkg.NewError("formatted source does not verify")
	ErrWrite  = pkg.NewError("failed to write source")
	ErrRule   = pkg.NewError("rule failed")
)

// Ext is the extension of the source files that are processed.
const Ext = ".lua"

// DefaultSkipDirs are the directory names that are never entered.
var DefaultSkipDirs = []string{"graphics", "locale"}

// Fixer applies a rule engine to source files.
type Fixer struct {
	engine    *rule.Engine
	locales   *locale.Index
	logger    log.Logger
	skipDirs  []string
	format    []lua.FormatOption
	observer  func(FileResult)
	dryRun    bool
	keepGoing bool
}

// Option applies a configuration option to a [Fixer].
type Option func(*Fixer)

// WithLocales sets the locale index that rules consult.
func WithLocales(ix *locale.Index) Option {
	return func(f *Fixer) { f.locales = ix }
}

// WithLogger sets the logger that reports processed files.
func WithLogger(l log.Logger) Option {
	return func(f *Fixer) { f.logger = l }
}

// WithSkipDirs replaces the directory names that are not entered.
func WithSkipDirs(names ...string) Option {
	return func(f *Fixer) { f.skipDirs = names }
}

// WithFormat sets the options used to format changed files.
func WithFormat(opts ...lua.FormatOption) Option {
	return func(f *Fixer) { f.format = opts }
}

// WithDryRun reports changes without writing them.
func WithDryRun(dryRun bool) Option {
	return func(f *Fixer) { f.dryRun = dryRun }
}

// WithKeepGoing logs files that cannot be read or parsed and continues with
// the next file instead of stopping.
func WithKeepGoing(keepGoing bool) Option {
	return func(f *Fixer) { f.keepGoing = keepGoing }
}

// WithFileObserver sets a function called after each file is processed.
func WithFileObserver(fn func(FileResult)) Option {
	return func(f *Fixer) { f.observer = fn }
}

// New returns a Fixer that runs engine.
func New(engine *rule.Engine, opts ...Option) *Fixer {
	f := &Fixer{
		engine:   engine,
		skipDirs: DefaultSkipDirs,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f
}

// FileResult describes one processed file.
type FileResult struct {
	Path    string
	Mod     string
	Counts  rule.Counts
	Changed bool
	Written bool
	Err     error
}

// Walk runs the engine on every table constructor of file, outer tables
// first, and replaces each with its edited version.
//
// A table whose rules raise an error is kept as it was; Walk continues
// with the next table and returns the errors joined.
func (f *Fixer) Walk(ctx context.Context, file *lua.File, base rule.Context) (rule.Counts, error) {
	var (
		total rule.Counts
		errs  []error
	)

	base.Locales = f.locales

	lua.Rewrite(file, func(node *lua.Table) *lua.Table {
		if ctx.Err() != nil {
			return node
		}

		view := value.NewTable(node)

		counts, err := f.engine.Apply(ctx, base, view)
		if err != nil {
			f.logger.ErrorContext(ctx, "rule failed", slog.Any("error", err))
			errs = append(errs, err)

			return node
		}

		total = total.Add(counts)

		if counts.Applied == 0 {
			return node
		}

		return view.Node()
	})

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return total, ErrRule.Wrap(errors.Join(errs...))
	}

	return total, nil
}

// FixSource applies the rules to src and returns the formatted result.
// The result is src itself when the rules change nothing.
func (f *Fixer) FixSource(ctx context.Context, src string, base rule.Context) (string, rule.Counts, error) {
	file, err := lua.Parse(src)
	if err != nil {
		return src, rule.Counts{}, ErrParse.Wrap(err)
	}

	before := lua.Clone(file)

	counts, err := f.Walk(ctx, file, base)
	if err != nil {
		return src, counts, err
	}

	if lua.Similar(before, file) {
		return src, counts, nil
	}

	out, err := Format(file, f.format...)
	if err != nil {
		return src, counts, err
	}

	return out, counts, nil
}

// Format formats file and checks that the text parses back to a tree
// similar to file.
func Format(file *lua.File, opts ...lua.FormatOption) (string, error) {
	out := lua.Format(file, opts...).String()

	again, err := lua.Parse(out)
	if err != nil {
		return "", ErrVerify.Wrap(err)
	}

	if !lua.Similar(again, file) {
		return "", ErrVerify
	}

	return out, nil
}

// VisitFile processes the named file as part of mod, and writes it back
// if the rules changed it.
func (f *Fixer) VisitFile(ctx context.Context, path, mod string) (FileResult, error) {
	res := FileResult{Path: path, Mod: mod}

	info, err := os.Stat(path)
	if err != nil {
		return res, ErrRead.Wrap(err).With(slog.String("file", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, ErrRead.Wrap(err).With(slog.String("file", path))
	}

	src := string(data)

	out, counts, err := f.FixSource(ctx, src, rule.Context{Mod: mod, File: path})
	res.Counts = counts

	if err != nil {
		return res, pkg.WrapError(err).With(slog.String("file", path))
	}

	if out == src {
		return res, nil
	}

	res.Changed = true

	if f.dryRun {
		f.logger.InfoContext(ctx, "would write",
			slog.String("mod", mod), slog.String("file", path))

		return res, nil
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return res, ErrWrite.Wrap(err).With(slog.String("file", path))
	}

	res.Written = true

	f.logger.InfoContext(ctx, "wrote",
		slog.String("mod", mod), slog.String("file", path),
		slog.Int("applied", counts.Applied))

	return res, nil
}
