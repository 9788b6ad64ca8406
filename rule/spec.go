package rule

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/protofix/pkg"
	"github.com/ardnew/protofix/value"
)

// Specs is the document of a rules file.
type Specs struct {
	Rules []Spec `yaml:"rules"`
}

// Spec is the definition of a rule in a rules file.
//
// A Spec without actions toggles the rule of the same name in a catalog.
// A Spec with actions defines a new rule, or replaces a rule of the same
// name.
type Spec struct {
	Name    string       `yaml:"name"`
	Enabled *bool        `yaml:"enabled,omitempty"`
	Kind    *KindSpec    `yaml:"kind,omitempty"`
	Filter  string       `yaml:"filter,omitempty"`
	Actions []ActionSpec `yaml:"actions,omitempty"`
}

// KindSpec selects prototype types. Exactly one of Types or None is set.
type KindSpec struct {
	Types []string `yaml:"types,omitempty"`
	None  bool     `yaml:"none,omitempty"`
}

// ActionSpec is one edit of a declarative rule. Exactly one field is set.
type ActionSpec struct {
	Wrap   *WrapSpec   `yaml:"wrap,omitempty"`
	Rename *RenameSpec `yaml:"rename,omitempty"`
	Remove *RemoveSpec `yaml:"remove,omitempty"`
	Set    *SetSpec    `yaml:"set,omitempty"`
}

// WrapSpec moves fields into the nested table at the dotted path Into.
type WrapSpec struct {
	Fields []string `yaml:"fields"`
	Into   string   `yaml:"into"`
}

// RenameSpec renames a field of the table at the dotted path In.
type RenameSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	In   string `yaml:"in,omitempty"`
}

// RemoveSpec removes a field of the table at the dotted path In.
type RemoveSpec struct {
	Field string `yaml:"field"`
	In    string `yaml:"in,omitempty"`
}

// SetSpec sets a field of the table at the dotted path In to the result of
// the expression Value.
type SetSpec struct {
	Field string `yaml:"field"`
	Value string `yaml:"value"`
	In    string `yaml:"in,omitempty"`
}

// ParseSpecs decodes a rules document.
func ParseSpecs(r io.Reader) ([]Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadSpec.Wrap(err)
	}

	var doc Specs
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, ErrReadSpec.Wrap(errors.New(yaml.FormatError(err, false, true)))
	}

	for i, s := range doc.Rules {
		if s.Name == "" {
			return nil, ErrSpec.Wrap(fmt.Errorf("rule %d has no name", i+1))
		}
	}

	return doc.Rules, nil
}

// LoadSpecs reads the named rules file.
func LoadSpecs(name string) ([]Spec, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, ErrReadSpec.Wrap(err).With(slog.String("file", name))
	}

	specs, err := ParseSpecs(bytes.NewReader(data))
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("file", name))
	}

	return specs, nil
}

// Configure returns a copy of c updated by specs, in order.
func (c Catalog) Configure(specs ...Spec) (Catalog, error) {
	out := c

	for _, s := range specs {
		if len(s.Actions) == 0 {
			if s.Enabled == nil {
				continue
			}

			var err error
			if *s.Enabled {
				out, err = out.Enable(s.Name)
			} else {
				out, err = out.Disable(s.Name)
			}

			if err != nil {
				return nil, err
			}

			continue
		}

		r, err := s.Compile()
		if err != nil {
			return nil, err
		}

		out = out.Add(r, s.Enabled == nil || *s.Enabled)
	}

	return out, nil
}

// Compile builds the rule defined by s.
func (s Spec) Compile() (Rule, error) {
	fail := func(err error) (Rule, error) {
		return nil, ErrSpec.Wrap(err).With(slog.String("rule", s.Name))
	}

	if s.Kind == nil {
		return fail(errors.New("missing kind"))
	}

	var kind Kind

	switch {
	case s.Kind.None && len(s.Kind.Types) > 0:
		return fail(errors.New("kind has both types and none"))
	case s.Kind.None:
		kind = None()
	case len(s.Kind.Types) > 0:
		kind = Family(s.Kind.Types...)
	default:
		return fail(errors.New("kind selects no types"))
	}

	r := &specRule{name: s.Name, kind: kind}

	if s.Filter != "" {
		p, err := expr.Compile(s.Filter, expr.Env(newEnv(Context{}, nil)), expr.AsBool())
		if err != nil {
			return nil, ErrFilter.Wrap(err).
				With(slog.String("rule", s.Name), slog.String("source", s.Filter))
		}

		r.filter = p
	}

	for i, a := range s.Actions {
		act, err := compileAction(a)
		if err != nil {
			return nil, pkg.WrapError(err).
				With(slog.String("rule", s.Name), slog.Int("action", i+1))
		}

		r.actions = append(r.actions, act)
	}

	return r, nil
}

type action func(env map[string]any, t *value.Table) (bool, error)

func compileAction(a ActionSpec) (action, error) {
	n := 0
	for _, set := range []bool{a.Wrap != nil, a.Rename != nil, a.Remove != nil, a.Set != nil} {
		if set {
			n++
		}
	}

	if n != 1 {
		return nil, ErrAction.Wrap(fmt.Errorf("expected one action, got %d", n))
	}

	switch {
	case a.Wrap != nil:
		w := *a.Wrap
		if len(w.Fields) == 0 || w.Into == "" {
			return nil, ErrAction.Wrap(errors.New("wrap needs fields and into"))
		}

		return func(_ map[string]any, t *value.Table) (bool, error) {
			return Move(t, Path(w.Into), Fields(w.Fields...)...)
		}, nil

	case a.Rename != nil:
		rn := *a.Rename
		if rn.From == "" || rn.To == "" {
			return nil, ErrAction.Wrap(errors.New("rename needs from and to"))
		}

		return func(_ map[string]any, t *value.Table) (bool, error) {
			return Edit(t, Path(rn.In), func(t *value.Table) (bool, error) {
				pos, ok := t.IndexOf(rn.From)
				if !ok || rn.From == rn.To {
					return false, nil
				}

				if t.ContainsKey(rn.To) {
					return false, ErrAction.Wrap(fmt.Errorf("%s already exists", rn.To))
				}

				t.RenameAt(pos, rn.To)

				return true, nil
			})
		}, nil

	case a.Remove != nil:
		rm := *a.Remove
		if rm.Field == "" {
			return nil, ErrAction.Wrap(errors.New("remove needs field"))
		}

		return func(_ map[string]any, t *value.Table) (bool, error) {
			return Edit(t, Path(rm.In), func(t *value.Table) (bool, error) {
				_, ok := t.Remove(rm.Field)

				return ok, nil
			})
		}, nil

	default:
		st := *a.Set
		if st.Field == "" || st.Value == "" {
			return nil, ErrAction.Wrap(errors.New("set needs field and value"))
		}

		p, err := expr.Compile(st.Value, expr.Env(newEnv(Context{}, nil)))
		if err != nil {
			return nil, ErrFilter.Wrap(err).With(slog.String("source", st.Value))
		}

		return func(env map[string]any, t *value.Table) (bool, error) {
			out, err := vm.Run(p, env)
			if err != nil {
				return false, ErrAction.Wrap(err)
			}

			x, ok := value.TryExpr(out)
			if !ok {
				return false, ErrAction.Wrap(fmt.Errorf("cannot convert %T to a value", out))
			}

			return Edit(t, Path(st.In), func(t *value.Table) (bool, error) {
				t.Set(st.Field, x)

				return true, nil
			})
		}, nil
	}
}

type specRule struct {
	name    string
	kind    Kind
	filter  *vm.Program
	actions []action
}

func (r *specRule) Name() string { return r.name }
func (r *specRule) Kind() Kind   { return r.kind }

func (r *specRule) Match(c Context, t *value.Table) bool {
	if r.filter == nil {
		return true
	}

	out, err := vm.Run(r.filter, newEnv(c, t))
	if err != nil {
		c.Logger.Warn("filter failed",
			append(c.Attrs(), slog.String("rule", r.name), slog.Any("error", err))...)

		return false
	}

	ok, _ := out.(bool)

	return ok
}

// Apply runs the actions on a copy of t, so that a failing action leaves t
// unchanged.
func (r *specRule) Apply(c Context, t *value.Table) Result {
	work := t.Clone()
	env := newEnv(c, work)
	changed := false

	for _, act := range r.actions {
		ok, err := act(env, work)
		if err != nil {
			return Fail(err.Error())
		}

		changed = changed || ok
	}

	if !changed {
		return Skip()
	}

	t.Clear()
	t.Extend(work)

	return Done()
}

// newEnv returns the expression environment for a table. The prototype's
// type and name are under "proto" since "type" and "get" are builtins.
func newEnv(c Context, t *value.Table) map[string]any {
	if t == nil {
		t = value.NewTable(nil)
	}

	return map[string]any{
		"proto": map[string]any{
			"type": c.Type,
			"name": c.Prototype,
			"mod":  c.Mod,
			"file": c.File,
		},
		"has": func(key string) bool { return t.ContainsKey(key) },
		"field": func(key string) any {
			x, ok := t.GetExpr(key)
			if !ok {
				return nil
			}

			v, ok := value.FromExpr(x)
			if !ok {
				return nil
			}

			return v.Any()
		},
		"size": func() int { return t.Len() },
		"locale": func(category, key string) string {
			s, _ := c.Locales.Get(category, key)

			return s
		},
		"hasLocale": func(key string) bool {
			_, ok := c.Locales.FindCategoryByKey(key)

			return ok
		},
		"localeCategory": func(key string) string {
			cat, _ := c.Locales.FindCategoryByKey(key)

			return cat
		},
	}
}
