package fixer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/protofix/rule"
)

// ModInfo is the file that marks a directory as a mod.
const ModInfo = "info.json"

// Summary tallies the files of a run.
type Summary struct {
	Files   int
	Changed int
	Written int
	Skipped int
	Counts  rule.Counts
}

func (s *Summary) add(r FileResult) {
	s.Files++
	s.Counts = s.Counts.Add(r.Counts)

	if r.Changed {
		s.Changed++
	}

	if r.Written {
		s.Written++
	}

	if r.Err != nil {
		s.Skipped++
	}
}

// Merge adds the tallies of o to s.
func (s *Summary) Merge(o Summary) {
	s.Files += o.Files
	s.Changed += o.Changed
	s.Written += o.Written
	s.Skipped += o.Skipped
	s.Counts = s.Counts.Add(o.Counts)
}

// Unit is a file or directory to process and the mod it belongs to.
type Unit struct {
	Path string
	Mod  string
	Dir  bool
}

// IsMod reports whether dir contains a [ModInfo] file.
func IsMod(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ModInfo))

	return err == nil && info.Mode().IsRegular()
}

// Discover resolves paths into units.
//
// A file is its own unit. A mod directory is one unit named after the
// directory. A directory that contains mods yields one unit per mod, in
// lexical order. Any other directory is one unit with no mod name.
func Discover(paths ...string) ([]Unit, error) {
	var units []Unit

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, ErrRead.Wrap(err).With(slog.String("path", path))
		}

		if !info.IsDir() {
			units = append(units, Unit{Path: path})

			continue
		}

		if IsMod(path) {
			units = append(units, Unit{Path: path, Mod: filepath.Base(path), Dir: true})

			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, ErrRead.Wrap(err).With(slog.String("path", path))
		}

		var mods []Unit

		for _, e := range entries {
			sub := filepath.Join(path, e.Name())
			if e.IsDir() && IsMod(sub) {
				mods = append(mods, Unit{Path: sub, Mod: e.Name(), Dir: true})
			}
		}

		if len(mods) == 0 {
			mods = []Unit{{Path: path, Dir: true}}
		}

		units = append(units, mods...)
	}

	return units, nil
}

// Files returns the source files below dir in lexical order, skipping the
// configured directory names.
func (f *Fixer) Files(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && slices.Contains(f.skipDirs, d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) == Ext && d.Type().IsRegular() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", dir))
	}

	return files, nil
}

// Locate returns the unit that path belongs to. A file below a directory
// unit belongs to it unless a directory on the way is skipped.
func (f *Fixer) Locate(units []Unit, path string) (Unit, bool) {
	for _, u := range units {
		if !u.Dir {
			if filepath.Clean(u.Path) == filepath.Clean(path) {
				return u, true
			}

			continue
		}

		rel, err := filepath.Rel(u.Path, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}

		dirs := strings.Split(filepath.Dir(rel), string(filepath.Separator))
		if slices.ContainsFunc(dirs, func(d string) bool { return slices.Contains(f.skipDirs, d) }) {
			continue
		}

		return u, true
	}

	return Unit{}, false
}

// Count returns the number of source files in units.
func (f *Fixer) Count(units []Unit) (int, error) {
	n := 0

	for _, u := range units {
		if !u.Dir {
			n++

			continue
		}

		files, err := f.Files(u.Path)
		if err != nil {
			return n, err
		}

		n += len(files)
	}

	return n, nil
}

// Run processes every unit in order.
//
// Files whose formatted output does not verify are logged and left
// unchanged. With [WithKeepGoing], files that cannot be read, parsed or
// fixed are logged and skipped too; otherwise the first such error stops
// the run. Run checks ctx between files.
func (f *Fixer) Run(ctx context.Context, units ...Unit) (Summary, error) {
	var sum Summary

	for _, u := range units {
		files := []string{u.Path}

		if u.Dir {
			var err error

			if files, err = f.Files(u.Path); err != nil {
				return sum, err
			}

			f.logger.DebugContext(ctx, "visiting",
				slog.String("mod", u.Mod),
				slog.String("dir", u.Path),
				slog.Int("files", len(files)))
		}

		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return sum, err
			}

			res, err := f.VisitFile(ctx, path, u.Mod)
			res.Err = err

			sum.add(res)

			if f.observer != nil {
				f.observer(res)
			}

			if err == nil {
				continue
			}

			switch {
			case errors.Is(err, ErrVerify):
				f.logger.ErrorContext(ctx, "not written", slog.Any("error", err))
			case f.keepGoing && !errors.Is(err, ErrWrite):
				f.logger.WarnContext(ctx, "skipped", slog.Any("error", err))
			default:
				return sum, err
			}
		}
	}

	return sum, nil
}
