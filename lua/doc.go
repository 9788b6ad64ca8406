// Package lua reads and writes Lua source with enough structure to edit
// table constructors in place.
//
// It is not a general Lua parser. A chunk is tokenized with all whitespace
// and comments kept as trivia attached to the following token, brackets and
// blocks are checked for balance, and every table constructor becomes a
// [*Table] with its [*Field] entries. Field values are structured only as
// far as literals, prefix operators on a single operand, and "and"/"or"
// chains; everything else is kept as a [*Raw] run of tokens.
//
// An unmodified tree prints back to the exact source text:
//
//	f, err := lua.Parse(src)
//	if err != nil {
//		return err
//	}
//	fmt.Print(f) // == src
//
// [Similar] compares trees while ignoring trivia and separators, and
// [Format] lays a tree out canonically without changing its structure.
package lua
