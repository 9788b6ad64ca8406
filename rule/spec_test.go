package rule

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/protofix/locale"
	"github.com/ardnew/protofix/log"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		path    string
		moves   []FieldMove
		want    string
		changed bool
	}{
		{
			name:    "creates nested tables at first field",
			src:     `{type = "beam", name = "b", start = 1, head = 2, other = 3}`,
			path:    "graphics_set.beam",
			moves:   Fields("start", "ending", "head", "tail", "body"),
			want:    `{type = "beam", name = "b", graphics_set = {beam = {start = 1, head = 2}}, other = 3}`,
			changed: true,
		},
		{
			name:    "renames while moving",
			src:     `{name = "p", picture = "a.png"}`,
			path:    "graphics_set",
			moves:   []FieldMove{{From: "picture", To: "base_pictures"}},
			want:    `{name = "p", graphics_set = {base_pictures = "a.png"}}`,
			changed: true,
		},
		{
			name:    "extends existing table in place",
			src:     `{graphics_set = {a = 1}, name = "m", animation = 2}`,
			path:    "graphics_set",
			moves:   Fields("animation"),
			want:    `{graphics_set = {a = 1, animation = 2}, name = "m",}`,
			changed: true,
		},
		{
			name:  "nothing to move",
			src:   `{name = "m"}`,
			path:  "graphics_set",
			moves: Fields("animation"),
			want:  `{name = "m"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := mustView(t, tt.src)

			changed, err := Move(view, Path(tt.path), tt.moves...)
			if err != nil {
				t.Fatal(err)
			}

			if changed != tt.changed {
				t.Errorf("expected changed=%v", tt.changed)
			}

			if got := text(view); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMove_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`{graphics_set = "x", animation = 1}`, "graphics_set is not a table"},
		{`{graphics_set = {animation = 0}, animation = 1}`, "graphics_set.animation already exists"},
	}

	for _, tt := range tests {
		view := mustView(t, tt.src)

		_, err := Move(view, Path("graphics_set"), Fields("animation")...)
		if !errors.Is(err, ErrAction) || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("expected %q, got %v", tt.want, err)
		}

		if got := text(view); got != tt.src {
			t.Errorf("expected table unchanged, got %s", got)
		}
	}
}

const rulesYAML = `
rules:
  - name: recipe
    enabled: true
  - name: fluid_boxes
    enabled: false
  - name: pump-picture
    kind: {types: [offshore-pump]}
    filter: 'has("picture") && !has("graphics_set") && proto.mod == "base"'
    actions:
      - wrap: {fields: [picture], into: graphics_set}
      - rename: {from: picture, to: base_pictures, in: graphics_set}
      - remove: {field: obsolete}
      - set: {field: localised_name, value: '[localeCategory(proto.name) + "." + proto.name]'}
`

func TestSpecs(t *testing.T) {
	specs, err := ParseSpecs(strings.NewReader(rulesYAML))
	if err != nil {
		t.Fatal(err)
	}

	if len(specs) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(specs))
	}

	c, err := Catalog{
		{Rule: noop("recipe")},
		{Rule: noop("fluid_boxes"), Enabled: true},
	}.Configure(specs...)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for r := range c.Enabled() {
		names = append(names, r.Name())
	}

	if strings.Join(names, ",") != "recipe,pump-picture" {
		t.Errorf("unexpected enabled rules %v", names)
	}

	ix := locale.New()
	ix.Set("entity-name", "pump", "Pump")

	i, _ := c.Lookup("pump-picture")
	r := c[i].Rule

	view := mustView(t, `{type = "offshore-pump", name = "pump", picture = "p.png", obsolete = 1}`)
	ctx := Context{Mod: "base", Type: "offshore-pump", Prototype: "pump", Locales: ix}

	if !r.Match(ctx, view) {
		t.Fatal("expected match")
	}

	if r.Match(Context{Mod: "other"}, view) {
		t.Error("expected no match for other mod")
	}

	if res := r.Apply(ctx, view); res.Outcome != Applied {
		t.Fatalf("expected applied, got %v", res)
	}

	want := `{type = "offshore-pump", name = "pump", graphics_set = {base_pictures = "p.png"}, localised_name = {"entity-name.pump"}}`
	if got := text(view); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSpec_ApplyFailureLeavesTable(t *testing.T) {
	specs, err := ParseSpecs(strings.NewReader(`
rules:
  - name: clash
    kind: {none: true}
    actions:
      - remove: {field: a}
      - rename: {from: b, to: c}
`))
	if err != nil {
		t.Fatal(err)
	}

	r, err := specs[0].Compile()
	if err != nil {
		t.Fatal(err)
	}

	const src = `{a = 1, b = 2, c = 3}`

	view := mustView(t, src)

	res := r.Apply(Context{}, view)
	if res.Outcome != Failed || !strings.Contains(res.Reason, "c already exists") {
		t.Errorf("expected failure, got %v", res)
	}

	if got := text(view); got != src {
		t.Errorf("expected table unchanged, got %s", got)
	}

	if res := r.Apply(Context{}, mustView(t, `{x = 1}`)); res.Outcome != NotApplicable {
		t.Errorf("expected skip, got %v", res)
	}
}

func TestSpec_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"unknown field", "rules:\n  - name: a\n    bogus: 1\n", ErrReadSpec},
		{"no name", "rules:\n  - enabled: true\n", ErrSpec},
		{"no kind", "rules:\n  - name: a\n    actions:\n      - remove: {field: x}\n", ErrSpec},
		{"empty kind", "rules:\n  - name: a\n    kind: {}\n    actions:\n      - remove: {field: x}\n", ErrSpec},
		{"bad filter", "rules:\n  - name: a\n    kind: {none: true}\n    filter: 'has(1, 2'\n    actions:\n      - remove: {field: x}\n", ErrFilter},
		{"non-bool filter", "rules:\n  - name: a\n    kind: {none: true}\n    filter: 'size()'\n    actions:\n      - remove: {field: x}\n", ErrFilter},
		{"two actions", "rules:\n  - name: a\n    kind: {none: true}\n    actions:\n      - remove: {field: x}\n        rename: {from: a, to: b}\n", ErrAction},
		{"empty wrap", "rules:\n  - name: a\n    kind: {none: true}\n    actions:\n      - wrap: {into: g}\n", ErrAction},
		{"unknown toggle", "rules:\n  - name: nope\n    enabled: true\n", ErrUnknownRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := ParseSpecs(strings.NewReader(tt.doc))
			if err == nil {
				_, err = Catalog{{Rule: noop("recipe")}}.Configure(specs...)
			}

			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestLoadSpecs(t *testing.T) {
	name := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(name, []byte(rulesYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	specs, err := LoadSpecs(name)
	if err != nil || len(specs) != 3 {
		t.Fatalf("LoadSpecs: %v, %d specs", err, len(specs))
	}

	if _, err := LoadSpecs(name + ".missing"); !errors.Is(err, ErrReadSpec) {
		t.Errorf("expected ErrReadSpec, got %v", err)
	}
}

func TestEngine_SpecRule(t *testing.T) {
	specs, err := ParseSpecs(strings.NewReader(rulesYAML))
	if err != nil {
		t.Fatal(err)
	}

	c, err := Catalog{}.Add(noop("recipe"), false).Add(noop("fluid_boxes"), false).Configure(specs[2])
	if err != nil {
		t.Fatal(err)
	}

	view := mustView(t, `{type = "offshore-pump", name = "pump", picture = "p.png"}`)

	counts, err := NewEngine(c).Apply(context.Background(), Context{Mod: "base"}, view)
	if err != nil || counts.Applied != 1 {
		t.Fatalf("expected one applied rule, got %+v, %v", counts, err)
	}

	// Without locales the category is empty.
	want := `{type = "offshore-pump", name = "pump", graphics_set = {base_pictures = "p.png"}, localised_name = {".pump"}}`
	if got := text(view); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEngine_SpecFilterError(t *testing.T) {
	specs, err := ParseSpecs(strings.NewReader(`
rules:
  - name: sized
    kind: {types: [pump]}
    filter: 'field("size") > 1'
    actions:
      - remove: {field: size}
`))
	if err != nil {
		t.Fatal(err)
	}

	c, err := Catalog{}.Configure(specs[0])
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer

	eng := NewEngine(c, WithLogger(log.Make(&buf, log.WithPretty(false))))

	const src = `{type = "pump", name = "p", size = "large"}`

	view := mustView(t, src)

	counts, err := eng.Apply(context.Background(), Context{Mod: "base"}, view)
	if err != nil || counts != (Counts{}) {
		t.Fatalf("expected no match, got %+v, %v", counts, err)
	}

	if got := text(view); got != src {
		t.Errorf("expected table unchanged, got %s", got)
	}

	out := buf.String()
	for _, want := range []string{"filter failed", "rule=sized", "prototype=p"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log %q", want, out)
		}
	}

	// A matching value still applies.
	view = mustView(t, `{type = "pump", name = "p", size = 2}`)

	if counts, _ := eng.Apply(context.Background(), Context{}, view); counts.Applied != 1 {
		t.Errorf("expected one applied rule, got %+v", counts)
	}
}
