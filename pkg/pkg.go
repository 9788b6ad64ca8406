//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the module, embedded at build time.
//
//go:embed VERSION
var Version string

const (
	// Name is the command name. It appears in help text and default paths.
	Name = "protofix"
	// Description is a one-line summary used in help output.
	Description = "Migrate Factorio prototype definitions in place"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// EnvName returns the environment variable name for key, prefixed with the
// upper-cased command name: EnvName("locale_path") is "PROTOFIX_LOCALE_PATH".
func EnvName(key string) string {
	r := strings.NewReplacer("-", "_", ".", "_")

	return strings.ToUpper(r.Replace(Name + "_" + key))
}
