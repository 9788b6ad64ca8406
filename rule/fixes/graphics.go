package fixes

import (
	"slices"

	"github.com/ardnew/protofix/rule"
	"github.com/ardnew/protofix/value"
)

// GraphicsSet is the field that holds the graphics of newer prototypes.
const GraphicsSet = "graphics_set"

// Graphics moves the top-level graphics fields of a prototype into its
// graphics set.
//
// Prototypes that already have a graphics set are left alone. The fields
// named by Moves are moved, in order, into the table at Path, which is
// created at the position of the first field found.
type Graphics struct {
	ID    string
	Types rule.Kind
	Path  []string
	Moves []rule.FieldMove
	// Require makes the rule match only if one of the moved fields exists.
	Require bool
	// Always adds an empty graphics set when there is nothing to move.
	Always bool
}

// NewBeam moves the sprites of a beam into graphics_set.beam.
func NewBeam() *Graphics {
	return &Graphics{
		ID:    NameBeam,
		Types: rule.Single("beam"),
		Path:  []string{GraphicsSet, "beam"},
		Moves: rule.Fields("start", "ending", "head", "tail", "body"),
	}
}

// NewMachine moves the animations of crafting machines and drills into
// graphics_set.
func NewMachine() *Graphics {
	return &Graphics{
		ID: NameMachine,
		Types: rule.Verify(func(typ string) bool {
			switch typ {
			case "assembling-machine", "furnace", "mining-drill", "rocket-silo":
				return true
			}

			return false
		}),
		Path:    []string{GraphicsSet},
		Moves:   rule.Fields("animation", "idle_animation", "working_visualisations"),
		Require: true,
	}
}

// NewOffshorePump moves the picture of an offshore pump to
// graphics_set.base_pictures. Pumps without a picture get an empty
// graphics set.
func NewOffshorePump() *Graphics {
	return &Graphics{
		ID:     NameOffshorePump,
		Types:  rule.Single("offshore-pump"),
		Path:   []string{GraphicsSet},
		Moves:  []rule.FieldMove{{From: "picture", To: "base_pictures"}},
		Always: true,
	}
}

// NewTurret moves the base picture of a turret to
// graphics_set.base_visualisation.animation.
func NewTurret() *Graphics {
	return &Graphics{
		ID:      NameTurret,
		Types:   rule.Family("turret", "electric-turret", "ammo-turret", "fluid-turret"),
		Path:    []string{GraphicsSet, "base_visualisation"},
		Moves:   []rule.FieldMove{{From: "base_picture", To: "animation"}},
		Require: true,
	}
}

func (g *Graphics) Name() string    { return g.ID }
func (g *Graphics) Kind() rule.Kind { return g.Types }

func (g *Graphics) Match(_ rule.Context, t *value.Table) bool {
	if t.ContainsKey(GraphicsSet) {
		return false
	}

	return !g.Require || slices.ContainsFunc(g.Moves, func(m rule.FieldMove) bool {
		return t.ContainsKey(m.From)
	})
}

func (g *Graphics) Apply(_ rule.Context, t *value.Table) rule.Result {
	moved, err := rule.Move(t, g.Path, g.Moves...)
	if err != nil {
		return rule.Fail(err.Error())
	}

	if moved {
		return rule.Done()
	}

	if !g.Always {
		return rule.Skip()
	}

	t.Insert(GraphicsSet, value.NewTable(nil))

	return rule.Done()
}
