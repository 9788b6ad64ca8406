// Package fixer runs rules over the source files of mods.
//
// [Fixer.Walk] feeds every table constructor of a parsed file to a
// [rule.Engine], outer tables first, and substitutes the edited tables.
// [Fixer.VisitFile] writes a file back only when the rules changed its
// structure, after formatting it and checking that the formatted text
// parses to the same structure.
//
// [Discover] turns paths into units of work: a directory with an info.json
// file is a mod, and a directory of such directories is processed one mod
// at a time. Directories named graphics or locale are not entered.
package fixer
