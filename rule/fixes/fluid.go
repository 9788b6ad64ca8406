package fixes

import (
	"math"

	"github.com/ardnew/protofix/lua"
	"github.com/ardnew/protofix/rule"
	"github.com/ardnew/protofix/value"
)

// Grid is the spacing that pipe connection positions are snapped to.
const Grid = 0.5

// FluidBoxes snaps the pipe connection positions of fluid boxes down to
// the [Grid].
//
// Both a single fluid_box and a list of fluid_boxes are handled, for any
// table that also has a name and a collision_box. Connections without a
// two-element position are left as they are.
type FluidBoxes struct{}

func (FluidBoxes) Name() string    { return NameFluidBoxes }
func (FluidBoxes) Kind() rule.Kind { return rule.None() }

func (FluidBoxes) Match(_ rule.Context, t *value.Table) bool {
	return t.ContainsKeys("name", "collision_box") &&
		(t.ContainsKey("fluid_box") || t.ContainsKey("fluid_boxes"))
}

func (FluidBoxes) Apply(_ rule.Context, t *value.Table) rule.Result {
	if pos, ok := t.IndexOf("fluid_box"); ok {
		box, ok := value.GetAt[*value.Table](t, pos)
		if !ok || !snapBox(box) {
			return rule.Skip()
		}

		t.SetAt(pos, box)

		return rule.Done()
	}

	pos, ok := t.IndexOf("fluid_boxes")
	if !ok {
		return rule.Skip()
	}

	boxes, ok := value.GetAt[*value.Table](t, pos)
	if !ok {
		return rule.Skip()
	}

	changed := eachTable(boxes, snapBox)
	if !changed {
		return rule.Skip()
	}

	t.SetAt(pos, boxes)

	return rule.Done()
}

func snapBox(box *value.Table) bool {
	pos, ok := box.IndexOf("pipe_connections")
	if !ok {
		return false
	}

	conns, ok := value.GetAt[*value.Table](box, pos)
	if !ok || !eachTable(conns, snapConnection) {
		return false
	}

	box.SetAt(pos, conns)

	return true
}

func snapConnection(conn *value.Table) bool {
	pos, ok := conn.IndexOf("position")
	if !ok {
		return false
	}

	xy, ok := value.GetAt[[2]float32](conn, pos)
	if !ok {
		return false
	}

	snapped := [2]float32{Snap(xy[0]), Snap(xy[1])}
	if snapped == xy {
		return false
	}

	conn.SetAt(pos, snapped)

	return true
}

// eachTable applies fn to every positional table of t and reports whether
// fn changed any.
func eachTable(t *value.Table, fn func(*value.Table) bool) bool {
	changed := false

	for i, f := range t.Fields() {
		if f.Kind() != lua.FieldPositional {
			continue
		}

		sub, ok := value.GetAt[*value.Table](t, i)
		if !ok || !fn(sub) {
			continue
		}

		t.SetAt(i, sub)

		changed = true
	}

	return changed
}

// Snap truncates v towards zero to a multiple of [Grid].
func Snap(v float32) float32 {
	if r := float32(math.Mod(float64(v), Grid)); r != 0 {
		return v - r
	}

	return v
}
