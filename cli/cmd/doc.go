// Package cmd implements the protofix subcommands: run, watch, fmt, locale,
// rules and init.
package cmd

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/locale"
	"github.com/ardnew/protofix/lua"
	"github.com/ardnew/protofix/rule/fixes"
	"github.com/ardnew/protofix/watch"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)

// Vars returns the kong variables interpolated into the command flags.
func Vars() kong.Vars {
	return kong.Vars{
		"ruleNames":     strings.Join(fixes.Catalog().Names(), ", "),
		"localeEnv":     LocaleEnv,
		"language":      locale.DefaultLanguage,
		"indentWidth":   strconv.Itoa(lua.DefaultIndentWidth),
		"lineWidth":     strconv.Itoa(lua.DefaultLineWidth),
		"skipDirs":      strings.Join(fixer.DefaultSkipDirs, ","),
		"watchInterval": watch.DefaultInterval.String(),
	}
}
