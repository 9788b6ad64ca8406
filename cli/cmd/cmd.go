package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdioKey struct{}
	stdio    struct {
		in  io.Reader
		out io.Writer
	}
)

// WithStdio returns a new context.Context whose commands read standard
// input from in and write their output to out.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdinFrom(ctx context.Context) io.Reader {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.in != nil {
		return s.in
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.out != nil {
		return s.out
	}

	return os.Stdout
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and absolute/relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// uniquePaths returns paths without the entries that name a file or
// directory already listed, comparing device/inode pairs after resolving
// symlinks. Paths that cannot be resolved are kept so that their errors are
// reported where they are used.
func uniquePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		key, ok := pathKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, path)
	}

	return out
}

func pathKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
