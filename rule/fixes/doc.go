// Package fixes provides the built-in rules that migrate Factorio
// prototypes to the current data format.
//
//   - recipe: add a localised_name to recipes named after their product
//   - beam, machine, offshore_pump, turret: move sprites into graphics_set
//   - hr_version: replace sprites by their high resolution version
//   - fluid_boxes: snap pipe connection positions to the half-tile grid
package fixes
