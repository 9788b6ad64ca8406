package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/lua"
	"github.com/ardnew/protofix/pkg"
)

// Fmt formats Lua source files.
type Fmt struct {
	Format formatFlags `embed:""`
	Walk   walkFlags   `embed:""`

	Write bool `help:"Write the result to the source files instead of standard output." short:"w" xor:"mode"`
	Check bool `help:"List the files that are not formatted, and fail if any."          short:"c" xor:"mode"`

	Paths []string `arg:"" default:"-" help:"Lua files or directories, or '-' for standard input."`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdoutFrom(ctx)
	walker := fixer.New(nil, fixer.WithSkipDirs(f.Walk.SkipDir...))
	unformatted := 0

	for _, path := range uniquePaths(f.Paths) {
		if path == stdinSource {
			src, err := io.ReadAll(stdinFrom(ctx))
			if err != nil {
				return fixer.ErrRead.Wrap(err)
			}

			changed, err := f.source(out, "<stdin>", string(src))
			if err != nil {
				return err
			}

			if changed {
				unformatted++
			}

			continue
		}

		files := []string{path}

		if isDir(path) {
			if files, err = walker.Files(path); err != nil {
				return err
			}
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}

			changed, err := f.file(out, file)
			if err != nil {
				return err
			}

			if changed {
				unformatted++
			}
		}
	}

	if f.Check && unformatted > 0 {
		return ErrUnformatted.With(slog.Int("count", unformatted))
	}

	return nil
}

// file formats the named file and reports whether its text changed.
func (f *Fmt) file(out io.Writer, name string) (bool, error) {
	info, err := os.Stat(name)
	if err != nil {
		return false, fixer.ErrRead.Wrap(err).With(slog.String("file", name))
	}

	src, err := os.ReadFile(name)
	if err != nil {
		return false, fixer.ErrRead.Wrap(err).With(slog.String("file", name))
	}

	if !f.Write {
		return f.source(out, name, string(src))
	}

	formatted, err := f.format(name, string(src))
	if err != nil {
		return false, err
	}

	if formatted == string(src) {
		return false, nil
	}

	if err := os.WriteFile(name, []byte(formatted), info.Mode().Perm()); err != nil {
		return true, fixer.ErrWrite.Wrap(err).With(slog.String("file", name))
	}

	log.Info("formatted", slog.String("file", name))

	return true, nil
}

// source formats src and writes the result, or the name when checking,
// to out.
func (f *Fmt) source(out io.Writer, name, src string) (bool, error) {
	formatted, err := f.format(name, src)
	if err != nil {
		return false, err
	}

	changed := formatted != src

	switch {
	case f.Check:
		if changed {
			fmt.Fprintln(out, name)
		}
	default:
		if _, err := io.WriteString(out, formatted); err != nil {
			return changed, fixer.ErrWrite.Wrap(err)
		}
	}

	return changed, nil
}

func (f *Fmt) format(name, src string) (string, error) {
	file, err := lua.Parse(src)
	if err != nil {
		return "", fixer.ErrParse.Wrap(err).With(slog.String("file", name))
	}

	out, err := fixer.Format(file, f.Format.options()...)
	if err != nil {
		return "", pkg.WrapError(err).With(slog.String("file", name))
	}

	return out, nil
}
