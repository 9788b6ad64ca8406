package fixes

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/protofix/locale"
	"github.com/ardnew/protofix/lua"
	"github.com/ardnew/protofix/rule"
	"github.com/ardnew/protofix/value"
)

type fixCase struct {
	name   string
	src    string
	want   string // empty: unchanged
	counts rule.Counts
}

func runFix(t *testing.T, ruleName string, ix *locale.Index, tests []fixCase) {
	t.Helper()

	c, err := Catalog().Disable(rule.All)
	if err != nil {
		t.Fatal(err)
	}

	if c, err = c.Enable(ruleName); err != nil {
		t.Fatal(err)
	}

	eng := rule.NewEngine(c)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := lua.ParseExpr(tt.src)
			if err != nil {
				t.Fatal(err)
			}

			view := value.NewTable(x.(*lua.Table))

			counts, err := eng.Apply(context.Background(), rule.Context{Mod: "test", Locales: ix}, view)
			if err != nil {
				t.Fatal(err)
			}

			want := tt.want
			if want == "" {
				want = tt.src
			}

			if got := strings.TrimSpace(lua.Sprint(view.Node())); got != want {
				t.Errorf("\nexpected %s\n     got %s", want, got)
			}

			if counts != tt.counts {
				t.Errorf("expected counts %+v, got %+v", tt.counts, counts)
			}
		})
	}
}

var (
	applied = rule.Counts{Applied: 1}
	failed  = rule.Counts{Failed: 1}
)

func TestCatalog(t *testing.T) {
	c := Catalog()

	want := []string{
		NameRecipe, NameBeam, NameMachine, NameOffshorePump,
		NameTurret, NameHighRes, NameFluidBoxes,
	}
	if got := c.Names(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	var enabled []string
	for r := range c.Enabled() {
		enabled = append(enabled, r.Name())
	}

	if !slices.Equal(enabled, []string{NameFluidBoxes}) {
		t.Errorf("expected only fluid_boxes enabled, got %v", enabled)
	}
}

func TestRecipe(t *testing.T) {
	ix := locale.New()
	ix.Set("item-name", "foo", "Foo")
	ix.Set("item-name", "bar", "Bar")
	ix.Set("fluid-name", "water", "Water")
	ix.Set("entity-name", "pump", "Pump")

	runFix(t, NameRecipe, ix, []fixCase{
		{
			name:   "single result",
			src:    `{type = "recipe", name = "foo", results = {{name = "foo"}}}`,
			want:   `{type = "recipe", name = "foo", localised_name = {"item-name.foo"}, results = {{name = "foo"}}}`,
			counts: applied,
		},
		{
			name:   "main product wins",
			src:    `{type = "recipe", name = "r", main_product = "water", results = {{name = "water"}, {name = "steam"}}}`,
			want:   `{type = "recipe", name = "r", localised_name = {"fluid-name.water"}, main_product = "water", results = {{name = "water"}, {name = "steam"}}}`,
			counts: applied,
		},
		{
			name:   "legacy result",
			src:    `{type = "recipe", name = "r", result = "pump"}`,
			want:   `{type = "recipe", name = "r", localised_name = {"entity-name.pump"}, result = "pump"}`,
			counts: applied,
		},
		{
			name:   "positional result",
			src:    `{type = "recipe", name = "r", results = {{"bar", 1}}}`,
			want:   `{type = "recipe", name = "r", localised_name = {"item-name.bar"}, results = {{"bar", 1}}}`,
			counts: applied,
		},
		{
			name:   "two results",
			src:    `{type = "recipe", name = "r", results = {{name = "foo"}, {name = "bar"}}}`,
			counts: failed,
		},
		{
			name:   "void",
			src:    `{type = "recipe", name = "v", results = {{name = "fluid-void"}}}`,
			counts: failed,
		},
		{
			name:   "slag",
			src:    `{type = "recipe", name = "s", main_product = "slag"}`,
			counts: failed,
		},
		{
			name:   "no category",
			src:    `{type = "recipe", name = "r", results = {{name = "unknown"}}}`,
			counts: failed,
		},
		{
			name: "already localised",
			src:  `{type = "recipe", name = "r", localised_name = {"x"}, results = {{name = "foo"}}}`,
		},
		{
			name: "not a recipe",
			src:  `{type = "item", name = "foo", results = {{name = "foo"}}}`,
		},
		{
			name: "no product",
			src:  `{type = "recipe", name = "r", results = {{amount = 1}}}`,
		},
	})
}

func TestRecipe_NamedByRecipeCategory(t *testing.T) {
	ix := locale.New()
	if _, err := ix.Read(strings.NewReader("[recipe-name]\nfoo=Foo Item\n")); err != nil {
		t.Fatal(err)
	}

	runFix(t, NameRecipe, ix, []fixCase{
		{
			name: "recipe-name exists",
			src:  `{type = "recipe", name = "foo", results = {{name = "foo"}}}`,
		},
	})
}

func TestBeam(t *testing.T) {
	runFix(t, NameBeam, nil, []fixCase{
		{
			name:   "moves sprites",
			src:    `{type = "beam", name = "laser", start = {filename = "s.png"}, ending = {filename = "e.png"}, damage_interval = 20}`,
			want:   `{type = "beam", name = "laser", graphics_set = {beam = {start = {filename = "s.png"}, ending = {filename = "e.png"}}}, damage_interval = 20}`,
			counts: applied,
		},
		{
			name:   "keeps order of the rule",
			src:    `{type = "beam", name = "b", body = 1, head = 2}`,
			want:   `{type = "beam", name = "b", graphics_set = {beam = {head = 2, body = 1}}}`,
			counts: applied,
		},
		{
			name: "already migrated",
			src:  `{type = "beam", name = "b", graphics_set = {}, start = 1}`,
		},
		{
			name: "nothing to move",
			src:  `{type = "beam", name = "b"}`,
		},
	})
}

func TestMachine(t *testing.T) {
	runFix(t, NameMachine, nil, []fixCase{
		{
			name:   "furnace",
			src:    `{type = "furnace", name = "f", animation = {}, idle_animation = {}}`,
			want:   `{type = "furnace", name = "f", graphics_set = {animation = {}, idle_animation = {}}}`,
			counts: applied,
		},
		{
			name:   "drill",
			src:    `{type = "mining-drill", name = "d", working_visualisations = {}, speed = 1}`,
			want:   `{type = "mining-drill", name = "d", graphics_set = {working_visualisations = {}}, speed = 1}`,
			counts: applied,
		},
		{
			name: "other type",
			src:  `{type = "lab", name = "l", animation = {}}`,
		},
		{
			name: "no animation",
			src:  `{type = "furnace", name = "f"}`,
		},
	})
}

func TestOffshorePump(t *testing.T) {
	runFix(t, NameOffshorePump, nil, []fixCase{
		{
			name:   "picture",
			src:    `{type = "offshore-pump", name = "p", picture = {filename = "p.png"}, pumping_speed = 1}`,
			want:   `{type = "offshore-pump", name = "p", graphics_set = {base_pictures = {filename = "p.png"}}, pumping_speed = 1}`,
			counts: applied,
		},
		{
			name:   "no picture",
			src:    `{type = "offshore-pump", name = "p"}`,
			want:   `{type = "offshore-pump", name = "p", graphics_set = {}}`,
			counts: applied,
		},
		{
			name: "already migrated",
			src:  `{type = "offshore-pump", name = "p", graphics_set = {}}`,
		},
	})
}

func TestTurret(t *testing.T) {
	runFix(t, NameTurret, nil, []fixCase{
		{
			name:   "base picture",
			src:    `{type = "ammo-turret", name = "t", base_picture = {layers = {}}}`,
			want:   `{type = "ammo-turret", name = "t", graphics_set = {base_visualisation = {animation = {layers = {}}}}}`,
			counts: applied,
		},
		{
			name: "no base picture",
			src:  `{type = "fluid-turret", name = "t"}`,
		},
		{
			name: "not a turret",
			src:  `{type = "wall", name = "w", base_picture = {}}`,
		},
	})
}

func TestHighRes(t *testing.T) {
	runFix(t, NameHighRes, nil, []fixCase{
		{
			name:   "plain",
			src:    `{filename = "a.png", width = 32, hr_version = {filename = "hr-a.png", width = 64}}`,
			want:   `{filename = "hr-a.png", width = 64}`,
			counts: applied,
		},
		{
			name:   "guarded",
			src:    `{filename = "a.png", hr_version = settings and {filename = "hr.png"} or nil}`,
			want:   `{filename = "hr.png"}`,
			counts: applied,
		},
		{
			name: "no filename",
			src:  `{filename = "a.png", hr_version = {width = 1}}`,
		},
		{
			name: "not a table",
			src:  `{filename = "a.png", hr_version = sprite()}`,
		},
	})
}

func TestFluidBoxes(t *testing.T) {
	runFix(t, NameFluidBoxes, nil, []fixCase{
		{
			name:   "single box",
			src:    `{name = "pump", collision_box = {{-0.3, -0.3}, {0.3, 0.3}}, fluid_box = {pipe_connections = {{position = {1.3, 2.7}}, {type = "input"}}}}`,
			want:   `{name = "pump", collision_box = {{-0.3, -0.3}, {0.3, 0.3}}, fluid_box = {pipe_connections = {{position = {1, 2.5}}, {type = "input"}}}}`,
			counts: applied,
		},
		{
			name:   "box list",
			src:    `{name = "tank", collision_box = {}, fluid_boxes = {{pipe_connections = {{position = {-0.7, 0}}}}, {pipe_connections = {{position = {0.5, 1}}}}}}`,
			want:   `{name = "tank", collision_box = {}, fluid_boxes = {{pipe_connections = {{position = {-0.5, 0}}}}, {pipe_connections = {{position = {0.5, 1}}}}}}`,
			counts: applied,
		},
		{
			name: "aligned",
			src:  `{name = "x", collision_box = {}, fluid_box = {pipe_connections = {{position = {0.5, 1}}}}}`,
		},
		{
			name: "no collision box",
			src:  `{name = "x", fluid_box = {pipe_connections = {{position = {1.3, 1}}}}}`,
		},
		{
			name: "no position",
			src:  `{name = "x", collision_box = {}, fluid_box = {pipe_connections = {{direction = 1}}}}`,
		},
	})
}

func TestSnap(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{1.3, 1},
		{2.7, 2.5},
		{0.5, 0.5},
		{2, 2},
		{-0.7, -0.5},
		{-1.5, -1.5},
		{0.25, 0},
	}

	for _, tt := range tests {
		if got := Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
