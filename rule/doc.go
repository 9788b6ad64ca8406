// Package rule applies rewrite rules to the table constructors of prototype
// definitions.
//
// A [Rule] selects prototypes by [Kind], tests a table with Match and edits
// it with Apply, reporting a [Result]. Rules are kept in an ordered
// [Catalog] with a per-rule enabled flag, and an [Engine] runs every
// enabled rule that matches a table, in catalog order, against the same
// [value.Table] view:
//
//	eng := rule.NewEngine(catalog, rule.WithLogger(logger))
//	counts, err := eng.Apply(ctx, rule.Context{Mod: "base"}, view)
//
// Rules can also be declared in YAML and compiled with [Spec.Compile], using
// expr-lang expressions for filters and values:
//
//	rules:
//	  - name: pump-picture
//	    kind: {types: [offshore-pump]}
//	    filter: 'has("picture") && !has("graphics_set")'
//	    actions:
//	      - wrap: {fields: [picture], into: graphics_set}
//	      - rename: {from: picture, to: base_pictures, in: graphics_set}
//
// Filter and value expressions see the prototype as proto.type, proto.name,
// proto.mod and proto.file, and may call has(key), field(key), size(),
// locale(category, key), hasLocale(key) and localeCategory(key).
package rule
