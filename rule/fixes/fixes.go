package fixes

import "github.com/ardnew/protofix/rule"

// Rule names.
const (
	NameRecipe       = "recipe"
	NameBeam         = "beam"
	NameMachine      = "machine"
	NameOffshorePump = "offshore_pump"
	NameTurret       = "turret"
	NameHighRes      = "hr_version"
	NameFluidBoxes   = "fluid_boxes"
)

// Catalog returns the built-in rules in the order they run. Only
// [NameFluidBoxes] is enabled.
func Catalog() rule.Catalog {
	return rule.Catalog{
		{Rule: NewRecipe()},
		{Rule: NewBeam()},
		{Rule: NewMachine()},
		{Rule: NewOffshorePump()},
		{Rule: NewTurret()},
		{Rule: HighRes{}},
		{Rule: FluidBoxes{}, Enabled: true},
	}
}
