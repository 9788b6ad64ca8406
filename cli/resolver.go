package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/protofix/pkg"
)

// ErrConfig is returned when the configuration file cannot be parsed.
var ErrConfig = pkg.NewError("invalid configuration file")

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Top-level keys set flags of the same name. A key naming a command holds
// a mapping of that command's flags, which take precedence:
//
//	log-level: debug
//	locale-root:
//	  - ~/factorio/data
//	run:
//	  enable: [recipe, beam]
//	  keep-going: true
//
// Keys may use underscores in place of hyphens. Command-line flags override
// configuration values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrConfig.Wrap(errors.New(yaml.FormatError(err, false, true)))
	}

	return config(doc), nil
}

// config implements [kong.Resolver] for YAML documents.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if sec, ok := r.section(parent.Command.Name); ok {
			if v, ok := sec.lookup(flag.Name); ok {
				return v, nil
			}
		}
	}

	if v, ok := r.lookup(flag.Name); ok {
		return v, nil
	}

	return nil, nil
}

func (r config) section(name string) (config, bool) {
	v, ok := r.get(name)
	if !ok {
		return nil, false
	}

	m, ok := v.(map[string]any)

	return config(m), ok
}

func (r config) lookup(name string) (any, bool) {
	v, ok := r.get(name)
	if !ok {
		return nil, false
	}

	if _, isMap := v.(map[string]any); isMap {
		return nil, false
	}

	return flagValue(v), true
}

func (r config) get(name string) (any, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}

	v, ok := r[strings.ReplaceAll(name, "-", "_")]

	return v, ok
}

// flagValue converts a decoded YAML value to a form kong can map: numbers
// become strings, and sequences are converted element-wise.
func flagValue(v any) any {
	switch v := v.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
