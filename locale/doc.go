// Package locale indexes the localized strings of Factorio mods.
//
// Locale files are line based: a "[category]" header opens a section and each
// "key=value" line below it adds an entry. An [Index] maps category to key to
// string, and is used to decide whether a prototype already has a localized
// name and, if not, which category provides one:
//
//	ix, err := locale.Load(ctx, locale.WithRoots("factorio/data"))
//	if err != nil {
//		return err
//	}
//
//	cat, ok := ix.FindInCategoriesByKey("iron-plate",
//		"item-name", "fluid-name", "entity-name")
package locale
