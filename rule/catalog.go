package rule

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/ardnew/protofix/pkg"
)

// All names every rule of a catalog in [Catalog.Enable] and
// [Catalog.Disable].
const All = "all"

// Entry is a rule and whether it runs.
type Entry struct {
	Rule    Rule
	Enabled bool
}

// Catalog is an ordered list of rules. Rules run in catalog order.
//
// Methods that change the catalog return a modified copy.
type Catalog []Entry

// Names returns the rule names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Rule.Name()
	}

	return names
}

// Lookup returns the position of the named rule.
func (c Catalog) Lookup(name string) (int, bool) {
	i := slices.IndexFunc(c, func(e Entry) bool { return e.Rule.Name() == name })

	return i, i >= 0
}

// Enabled yields the enabled rules in order.
func (c Catalog) Enabled() iter.Seq[Rule] {
	return func(yield func(Rule) bool) {
		for _, e := range c {
			if e.Enabled && !yield(e.Rule) {
				return
			}
		}
	}
}

// Enable returns a copy of c with the named rules enabled.
func (c Catalog) Enable(names ...string) (Catalog, error) {
	return c.set(true, names)
}

// Disable returns a copy of c with the named rules disabled.
func (c Catalog) Disable(names ...string) (Catalog, error) {
	return c.set(false, names)
}

func (c Catalog) set(enabled bool, names []string) (Catalog, error) {
	out := slices.Clone(c)

	for _, name := range names {
		if name == All {
			for i := range out {
				out[i].Enabled = enabled
			}

			continue
		}

		i, ok := out.Lookup(name)
		if !ok {
			return nil, c.unknown(name)
		}

		out[i].Enabled = enabled
	}

	return out, nil
}

// Add returns a copy of c with r appended, or replacing the rule of the same
// name in place.
func (c Catalog) Add(r Rule, enabled bool) Catalog {
	out := slices.Clone(c)

	if i, ok := out.Lookup(r.Name()); ok {
		out[i] = Entry{Rule: r, Enabled: enabled}

		return out
	}

	return append(out, Entry{Rule: r, Enabled: enabled})
}

// Suggest returns the rule names similar to name, best first.
func (c Catalog) Suggest(name string) []string {
	return pkg.Suggest(name, c.Names(), 0)
}

func (c Catalog) unknown(name string) error {
	s := c.Suggest(name)
	if len(s) == 0 {
		return ErrUnknownRule.Wrap(errors.New(name)).
			With(slog.String("rule", name))
	}

	return ErrUnknownRule.Wrap(fmt.Errorf("%s (did you mean %s?)", name, s[0])).
		With(slog.String("rule", name), slog.String("suggestion", s[0]))
}
