package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/protofix/log"
	"github.com/ardnew/protofix/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(i.document(ktx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// document returns the application flags and their current values in
// declaration order, followed by one section per command holding the
// defaults of its flags. Unset and hidden flags are omitted.
func (i *Init) document(ktx *kong.Context) yaml.MapSlice {
	var doc yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if ignoreFlag(flag) {
			continue
		}

		if val := configValue(ktx.FlagValue(flag)); val != nil {
			doc = append(doc, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	for _, node := range ktx.Model.Children {
		if node.Type != kong.CommandNode || node.Hidden {
			continue
		}

		var section yaml.MapSlice

		for _, flag := range node.Flags {
			if ignoreFlag(flag) || flag.Default == "" {
				continue
			}

			section = append(section, yaml.MapItem{Key: flag.Name, Value: flag.Default})
		}

		if len(section) > 0 {
			doc = append(doc, yaml.MapItem{Key: node.Name, Value: section})
		}
	}

	return doc
}

func ignoreFlag(flag *kong.Flag) bool {
	return flag.Hidden || slices.ContainsFunc([]string{"help", "version", profile.Tag}, func(s string) bool {
		return strings.HasPrefix(flag.Name, s)
	})
}

// configValue returns v as written to the configuration file, or nil if
// v is empty.
func configValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}

		return v
	case []string:
		if len(v) == 0 {
			return nil
		}

		return v
	case bool, int, int64, uint, uint64, float64:
		return v
	case interface{ String() string }:
		return configValue(v.String())
	default:
		return v
	}
}
