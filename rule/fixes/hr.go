package fixes

import (
	"github.com/ardnew/protofix/rule"
	"github.com/ardnew/protofix/value"
)

// HighRes replaces a sprite definition by its hr_version.
//
// The hr_version may be guarded by a setting, as in
// "cond and {...} or {...}"; the high resolution table is taken from the
// guarded branch.
type HighRes struct{}

func (HighRes) Name() string    { return NameHighRes }
func (HighRes) Kind() rule.Kind { return rule.None() }

func (HighRes) Match(_ rule.Context, t *value.Table) bool {
	return t.ContainsKey("hr_version")
}

func (HighRes) Apply(_ rule.Context, t *value.Table) rule.Result {
	x, ok := t.GetExpr("hr_version")
	if !ok {
		return rule.Skip()
	}

	hr, ok := value.ExprAs[*value.Table](value.Fallback(x))
	if !ok {
		return rule.Skip()
	}

	if _, ok := value.Get[string](hr, "filename"); !ok {
		return rule.Skip()
	}

	t.Clear()
	t.Extend(hr)

	return rule.Done()
}
