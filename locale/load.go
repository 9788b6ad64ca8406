package locale

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrRead     = pkg.NewError("failed to read locale")
	ErrNotFound = pkg.NewError("no locale files found")
)

// DefaultLanguage is the language loaded when none is configured.
const DefaultLanguage = "en"

// Ext is the file extension of locale files.
const Ext = ".cfg"

// Option applies a configuration option to config.
type Option func(config) config

type config struct {
	logger   log.Logger
	language string
	paths    []string
	roots    []string
	required bool
}

// WithLanguage selects the locale sub-directory that is loaded.
func WithLanguage(lang string) Option {
	return func(c config) config {
		if lang != "" {
			c.language = lang
		}

		return c
	}
}

// WithPaths adds locale directories. Files are read from
// "<path>/<language>/*.cfg".
func WithPaths(paths ...string) Option {
	return func(c config) config {
		c.paths = append(slices.Clip(c.paths), paths...)

		return c
	}
}

// WithRoots adds directories of mods. Files are read from
// "<root>/*/locale/<language>/*.cfg", which matches both the data
// directory of the game and a mods directory.
func WithRoots(roots ...string) Option {
	return func(c config) config {
		c.roots = append(slices.Clip(c.roots), roots...)

		return c
	}
}

// WithRequired makes [Load] fail with [ErrNotFound] when no file is found.
func WithRequired(required bool) Option {
	return func(c config) config {
		c.required = required

		return c
	}
}

// WithLogger sets the logger that reports each loaded file.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.logger = l

		return c
	}
}

// Files returns the locale files selected by opts in load order.
func Files(opts ...Option) ([]string, error) {
	return makeConfig(opts).files()
}

// Load reads every locale file selected by opts into a new Index.
// Files are read in order, so later files overwrite earlier entries.
func Load(ctx context.Context, opts ...Option) (*Index, error) {
	cfg := makeConfig(opts)

	files, err := cfg.files()
	if err != nil {
		return nil, err
	}

	if cfg.required && len(files) == 0 {
		return nil, ErrNotFound.With(slog.String("language", cfg.language))
	}

	ix := New()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := ix.LoadFile(file)
		if err != nil {
			return nil, err
		}

		cfg.logger.InfoContext(ctx, "loaded locale",
			slog.String("file", file),
			slog.Int("entries", n))
	}

	cfg.logger.InfoContext(ctx, "locale ready",
		slog.String("language", cfg.language),
		slog.Int("files", len(files)),
		slog.Int("entries", ix.Len()))

	return ix, nil
}

// LoadFile adds the entries of the named file to ix.
func (ix *Index) LoadFile(name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, ErrRead.Wrap(err).With(slog.String("file", name))
	}
	defer f.Close()

	n, err := ix.Read(f)
	if err != nil {
		return n, pkg.WrapError(err).With(slog.String("file", name))
	}

	return n, nil
}

func makeConfig(opts []Option) config {
	cfg := config{language: DefaultLanguage}

	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}

func (c config) files() ([]string, error) {
	var files []string

	for _, path := range c.paths {
		match, err := filepath.Glob(filepath.Join(path, c.language, "*"+Ext))
		if err != nil {
			return nil, ErrRead.Wrap(err).With(slog.String("path", path))
		}

		files = append(files, match...)
	}

	for _, root := range c.roots {
		match, err := filepath.Glob(
			filepath.Join(root, "*", "locale", c.language, "*"+Ext))
		if err != nil {
			return nil, ErrRead.Wrap(err).With(slog.String("root", root))
		}

		files = append(files, match...)
	}

	return files, nil
}
