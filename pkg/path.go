package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var (
	debugBin  = regexp.MustCompile(`^__debug_bin\d+$`)
	leadDots  = regexp.MustCompile(`^\.+`)
	configEnv = EnvName("config_dir")
	cacheEnv  = EnvName("cache_dir")
)

// Prefix returns the base name of the executable without its extension.
// It names the configuration and cache directories. The default output of
// the dlv debugger is replaced with [Name] and leading dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		if debugBin.MatchString(id) {
			return Name
		}

		return leadDots.ReplaceAllString(id, "")
	},
)

// ConfigDir returns the configuration directory: PROTOFIX_CONFIG_DIR if
// set, or [Prefix] below the user's configuration directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir(configEnv, os.UserConfigDir, ".config")
	},
)

// CacheDir returns the directory of transient files such as profiles:
// PROTOFIX_CACHE_DIR if set, or [Prefix] below the user's cache directory.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir(cacheEnv, os.UserCacheDir, ".cache")
	},
)

// userDir resolves a per-user directory. When base fails, the directory
// hidden below the home directory is used, then the working directory.
func userDir(env string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}

	dir, err := base()
	if err == nil {
		return filepath.Join(dir, Prefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, hidden, Prefix())
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, Prefix())
	}

	return Prefix()
}
