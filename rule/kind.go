package rule

import (
	"slices"
	"strings"
)

// NoneType is the prototype name reported for tables matched by a [None]
// kind.
const NoneType = "table"

// Kind selects the prototype types a rule applies to.
//
// The zero Kind matches no type.
type Kind struct {
	types  []string
	verify func(string) bool
	none   bool
}

// Single matches exactly one prototype type.
func Single(typ string) Kind { return Kind{types: []string{typ}} }

// Family matches any of the given prototype types.
func Family(types ...string) Kind { return Kind{types: slices.Clone(types)} }

// Verify matches the prototype types accepted by fn.
func Verify(fn func(string) bool) Kind { return Kind{verify: fn} }

// None matches tables regardless of their type field, including tables that
// have none.
func None() Kind { return Kind{none: true} }

// IsNone reports whether k was made by [None].
func (k Kind) IsNone() bool { return k.none }

// Matches reports whether typ is selected by k.
func (k Kind) Matches(typ string) bool {
	switch {
	case k.none:
		return true
	case k.verify != nil:
		return k.verify(typ)
	default:
		return slices.Contains(k.types, typ)
	}
}

// Types returns the explicit types of a [Single] or [Family] kind.
func (k Kind) Types() []string { return slices.Clone(k.types) }

func (k Kind) String() string {
	switch {
	case k.none:
		return "*"
	case k.verify != nil:
		return "<verify>"
	default:
		return strings.Join(k.types, "|")
	}
}
