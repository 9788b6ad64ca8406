package rule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/protofix/lua"
	"github.com/ardnew/protofix/value"
)

func mustView(t *testing.T, src string) *value.Table {
	t.Helper()

	x, err := lua.ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", src, err)
	}

	tbl, ok := x.(*lua.Table)
	if !ok {
		t.Fatalf("ParseExpr(%q): expected table, got %T", src, x)
	}

	return value.NewTable(tbl)
}

func text(t *value.Table) string { return strings.TrimSpace(lua.Sprint(t.Node())) }

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		typ  string
		want bool
	}{
		{"single match", Single("recipe"), "recipe", true},
		{"single miss", Single("recipe"), "item", false},
		{"family match", Family("turret", "ammo-turret"), "ammo-turret", true},
		{"family miss", Family("turret", "ammo-turret"), "furnace", false},
		{"verify", Verify(func(s string) bool { return strings.HasSuffix(s, "-turret") }), "fluid-turret", true},
		{"none", None(), "", true},
		{"zero", Kind{}, "recipe", false},
	}

	for _, tt := range tests {
		if got := tt.kind.Matches(tt.typ); got != tt.want {
			t.Errorf("%s: Matches(%q) = %v", tt.name, tt.typ, got)
		}
	}

	if !None().IsNone() || Single("a").IsNone() {
		t.Error("unexpected IsNone")
	}

	if got := Family("a", "b").String(); got != "a|b" {
		t.Errorf("unexpected String %q", got)
	}
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Skip(), "skipped"},
		{Done(), "applied"},
		{Fail("no locale"), "failed: no locale"},
		{Failf("%d results", 2), "failed: 2 results"},
	}

	for _, tt := range tests {
		if got := tt.res.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestContext_Attrs(t *testing.T) {
	attrs := Context{Mod: "base", Prototype: "pump"}.Attrs()
	if len(attrs) != 2 || attrs[0].Key != "mod" || attrs[1].Key != "prototype" {
		t.Errorf("unexpected attrs %v", attrs)
	}
}

func noop(name string) Rule {
	return New(name, Single(name), nil, func(Context, *value.Table) Result { return Skip() })
}

func TestCatalog(t *testing.T) {
	c := Catalog{
		{Rule: noop("recipe")},
		{Rule: noop("beam")},
		{Rule: noop("fluid_boxes"), Enabled: true},
	}

	enabled := func(c Catalog) []string {
		var names []string
		for r := range c.Enabled() {
			names = append(names, r.Name())
		}

		return names
	}

	if got := enabled(c); !slices.Equal(got, []string{"fluid_boxes"}) {
		t.Errorf("unexpected enabled %v", got)
	}

	on, err := c.Enable("beam", "recipe")
	if err != nil {
		t.Fatal(err)
	}

	if got := enabled(on); !slices.Equal(got, []string{"recipe", "beam", "fluid_boxes"}) {
		t.Errorf("expected catalog order, got %v", got)
	}

	if got := enabled(c); len(got) != 1 {
		t.Errorf("expected original catalog unchanged, got %v", got)
	}

	off, err := on.Disable(All)
	if err != nil || len(enabled(off)) != 0 {
		t.Errorf("expected all disabled, got %v, %v", enabled(off), err)
	}

	_, err = c.Enable("fluid")
	if !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}

	if !strings.Contains(err.Error(), "did you mean fluid_boxes?") {
		t.Errorf("expected suggestion in %q", err)
	}

	if _, err := c.Enable("recpie"); !strings.Contains(fmt.Sprint(err), "did you mean recipe?") {
		t.Errorf("expected suggestion for a misspelled name, got %v", err)
	}

	if _, err := c.Disable("zzz"); !errors.Is(err, ErrUnknownRule) ||
		strings.Contains(err.Error(), "did you mean") {
		t.Errorf("expected plain ErrUnknownRule, got %v", err)
	}

	added := c.Add(noop("beam"), true).Add(noop("extra"), false)
	if got := added.Names(); !slices.Equal(got, []string{"recipe", "beam", "fluid_boxes", "extra"}) {
		t.Errorf("unexpected names %v", got)
	}

	if i, ok := added.Lookup("beam"); !ok || !added[i].Enabled {
		t.Error("expected replaced beam to be enabled")
	}
}

type recorder struct {
	calls []string
}

func (r *recorder) rule(name string, kind Kind, res Result, edit func(*value.Table)) Rule {
	return New(name, kind, nil, func(c Context, t *value.Table) Result {
		r.calls = append(r.calls, name+":"+c.Prototype)

		if edit != nil {
			edit(t)
		}

		return res
	})
}

func TestEngine_Precedence(t *testing.T) {
	rec := &recorder{}

	var events []Event

	c := Catalog{
		{Rule: rec.rule("first", Single("pump"), Fail("not ready"), nil), Enabled: true},
		{Rule: rec.rule("disabled", Single("pump"), Done(), nil)},
		{Rule: rec.rule("second", Family("pump", "tank"), Done(), func(t *value.Table) {
			t.Insert("second", true)
		}), Enabled: true},
		{Rule: rec.rule("other", Single("tank"), Done(), nil), Enabled: true},
		{Rule: rec.rule("third", Single("pump"), Done(), func(t *value.Table) {
			if !t.ContainsKey("second") {
				panic("third ran before second")
			}

			t.Insert("third", true)
		}), Enabled: true},
		{Rule: rec.rule("shape", None(), Skip(), nil), Enabled: true},
	}

	eng := NewEngine(c, WithObserver(ObserverFunc(func(e Event) { events = append(events, e) })))
	view := mustView(t, `{type = "pump", name = "p1"}`)

	counts, err := eng.Apply(context.Background(), Context{Mod: "base"}, view)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"first:p1", "second:p1", "third:p1", "shape:" + NoneType}
	if !slices.Equal(rec.calls, want) {
		t.Errorf("expected calls %v, got %v", want, rec.calls)
	}

	if counts != (Counts{Applied: 2, Failed: 1}) {
		t.Errorf("unexpected counts %+v", counts)
	}

	if got := text(view); got != `{type = "pump", name = "p1", second = true, third = true}` {
		t.Errorf("unexpected table %s", got)
	}

	if len(events) != 3 || events[0].Outcome != Failed || events[0].Reason != "not ready" ||
		events[1].Rule != "second" || events[2].Mod != "base" {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestEngine_MissingTypeOrName(t *testing.T) {
	for _, src := range []string{
		`{name = "p1"}`,
		`{type = "pump"}`,
		`{type = 3, name = "p1"}`,
		`{type = "pump", name = {}}`,
	} {
		rec := &recorder{}
		eng := NewEngine(Catalog{
			{Rule: rec.rule("typed", Single("pump"), Done(), nil), Enabled: true},
			{Rule: rec.rule("shape", None(), Done(), nil), Enabled: true},
		})

		counts, err := eng.Apply(context.Background(), Context{}, mustView(t, src))
		if err != nil {
			t.Fatal(err)
		}

		if !slices.Equal(rec.calls, []string{"shape:table"}) || counts.Applied != 1 {
			t.Errorf("%s: unexpected calls %v", src, rec.calls)
		}
	}
}

func TestEngine_MatchGates(t *testing.T) {
	applied := false
	r := New("gated", Single("pump"),
		func(_ Context, t *value.Table) bool { return t.ContainsKey("picture") },
		func(Context, *value.Table) Result { applied = true; return Done() })

	eng := NewEngine(Catalog{{Rule: r, Enabled: true}})

	counts, err := eng.Apply(context.Background(), Context{}, mustView(t, `{type = "pump", name = "p"}`))
	if err != nil || applied || counts != (Counts{}) {
		t.Errorf("expected no application, got %v %v %+v", applied, err, counts)
	}
}

func TestEngine_Panic(t *testing.T) {
	r := New("boom", None(), nil, func(Context, *value.Table) Result { panic("bad") })
	eng := NewEngine(Catalog{{Rule: r, Enabled: true}})

	_, err := eng.Apply(context.Background(), Context{}, mustView(t, `{}`))
	if !errors.Is(err, ErrPanic) || !strings.Contains(err.Error(), "bad") {
		t.Errorf("expected ErrPanic, got %v", err)
	}
}

func TestCounts_Add(t *testing.T) {
	if got := (Counts{1, 2}).Add(Counts{3, 4}); got != (Counts{4, 6}) {
		t.Errorf("unexpected sum %+v", got)
	}
}
