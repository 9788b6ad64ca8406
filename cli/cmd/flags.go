package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/protofix/fixer"
	"github.com/ardnew/protofix/locale"
	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/lua"
	"github.com/ardnew/protofix/pkg"
	"github.com/ardnew/protofix/rule"
	"github.com/ardnew/protofix/rule/fixes"
)

// LocaleEnv is the environment variable holding extra locale directories,
// separated like PATH.
var LocaleEnv = pkg.EnvName("locale_path")

// ruleFlags select the rules of a run.
type ruleFlags struct {
	Enable  []string `help:"Enable rules by name, or all (${ruleNames})." placeholder:"RULE"`
	Disable []string `help:"Disable rules by name, or all."                placeholder:"RULE"`
	Rules   []string `help:"Load declarative rules from YAML files."       placeholder:"FILE" type:"existingfile"`
}

// catalog returns the built-in catalog extended by the rules files, with
// the requested rules disabled and then enabled.
func (f ruleFlags) catalog() (rule.Catalog, error) {
	c := fixes.Catalog()

	for _, file := range f.Rules {
		specs, err := rule.LoadSpecs(file)
		if err != nil {
			return nil, err
		}

		if c, err = c.Configure(specs...); err != nil {
			return nil, pkg.WrapError(err).With(slog.String("file", file))
		}
	}

	c, err := c.Disable(f.Disable...)
	if err != nil {
		return nil, err
	}

	return c.Enable(f.Enable...)
}

// localeFlags locate the locale files.
type localeFlags struct {
	Locale     []string `help:"Locale directories containing <language>/*.cfg, searched before those in ${localeEnv}." placeholder:"DIR" type:"path"`
	LocaleRoot []string `help:"Directories of mods whose locale files are loaded (game data or mods)."            placeholder:"DIR" type:"path"`
	Language   string   `default:"${language}" help:"Locale language."`
}

// searchPath returns the locale directories from the flags followed by
// the existing directories listed in [LocaleEnv].
func (f localeFlags) searchPath() []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(LocaleEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(f.Locale...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func (f localeFlags) load(ctx context.Context, logger log.Logger) (*locale.Index, error) {
	return locale.Load(ctx,
		locale.WithLanguage(f.Language),
		locale.WithPaths(f.searchPath()...),
		locale.WithRoots(f.LocaleRoot...),
		locale.WithLogger(logger),
	)
}

// formatFlags control the layout of rewritten files.
type formatFlags struct {
	IndentWidth int  `default:"${indentWidth}" help:"Spaces per indentation level." short:"i"`
	Tabs        bool `help:"Indent with tabs."`
	LineWidth   int  `default:"${lineWidth}"   help:"Width above which tables are split over lines."`
}

func (f formatFlags) options() []lua.FormatOption {
	opts := []lua.FormatOption{
		lua.WithIndentWidth(f.IndentWidth),
		lua.WithLineWidth(f.LineWidth),
	}

	if f.Tabs {
		opts = append(opts, lua.WithTabs())
	}

	return opts
}

// walkFlags control which files are visited.
type walkFlags struct {
	SkipDir []string `default:"${skipDirs}" help:"Directory names that are not entered." placeholder:"NAME"`
}

func discover(paths []string) ([]fixer.Unit, error) {
	return fixer.Discover(uniquePaths(paths)...)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
