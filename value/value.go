package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/protofix/lua"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindNull   Kind = iota // null
	KindBool               // bool
	KindString             // string
	KindNumber             // number
	KindTable              // table
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Value is the semantic content of a literal expression.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string
	n    float32
	t    *Table
}

// Null is the null value, produced by the "nil" literal.
var Null = Value{}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// NumberValue returns a numeric Value.
func NumberValue(n float32) Value { return Value{kind: KindNumber, n: n} }

// TableValue returns a Value holding a table view.
func TableValue(t *Table) Value {
	if t == nil {
		return Null
	}

	return Value{kind: KindTable, t: t}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Number returns the number held by v.
func (v Value) Number() (float32, bool) { return v.n, v.kind == KindNumber }

// Table returns the table view held by v.
func (v Value) Table() (*Table, bool) { return v.t, v.kind == KindTable }

// String renders v as Lua source.
// Non-finite numbers have no literal and are formatted as Go would.
func (v Value) String() string {
	x, ok := TryExpr(v)
	if !ok {
		return strconv.FormatFloat(float64(v.n), 'g', -1, 32)
	}

	return strings.TrimSpace(lua.Sprint(x))
}

// Any converts v to plain Go data: nil, bool, string, float64, []any for a
// table of positional fields only, or map[string]any keyed by field key
// otherwise. Fields whose values are not literals are omitted.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindNumber:
		return float64(v.n)
	case KindTable:
		return v.t.Any()
	}

	return nil
}

// FromExpr returns the Value of a literal expression.
//
// Recognized shapes are string, number, boolean and nil literals, table
// constructors, and unary minus applied directly to a number literal.
// Any other expression reports false.
//
// FromExpr panics if a number literal's text is malformed.
func FromExpr(x lua.Expr) (Value, bool) {
	switch x := x.(type) {
	case *lua.Table:
		return TableValue(NewTable(x)), true

	case *lua.Literal:
		return fromToken(x.Token)

	case *lua.Unary:
		lit, ok := x.X.(*lua.Literal)
		if !ok || !x.Op.IsSymbol("-") || lit.Token.Kind != lua.KindNumber {
			return Null, false
		}

		return NumberValue(-parseNumber(lit.Token.Text)), true
	}

	return Null, false
}

func fromToken(tok *lua.Token) (Value, bool) {
	switch tok.Kind {
	case lua.KindNumber:
		return NumberValue(parseNumber(tok.Text)), true

	case lua.KindString:
		s, err := lua.Unquote(tok.Text)
		if err != nil {
			return Null, false
		}

		return StringValue(s), true

	case lua.KindKeyword:
		switch tok.Text {
		case "true":
			return BoolValue(true), true
		case "false":
			return BoolValue(false), true
		case "nil":
			return Null, true
		}
	}

	return Null, false
}

func parseNumber(text string) float32 {
	f, err := lua.ParseNumber(text)
	if err != nil {
		panic("value: malformed number " + strconv.Quote(text))
	}

	if math.Abs(f) > math.MaxFloat32 {
		return float32(math.Copysign(math.Inf(1), f))
	}

	return float32(f)
}

// Fallback unwraps a version-fallback expression.
//
// For "A and B or C" it returns B, and for "X or Y" where X is not an "and"
// expression it returns X. Any other expression is returned unchanged.
func Fallback(x lua.Expr) lua.Expr {
	or, ok := x.(*lua.Binary)
	if !ok || !or.Op.IsKeyword("or") {
		return x
	}

	if and, ok := or.X.(*lua.Binary); ok && and.Op.IsKeyword("and") {
		return and.Y
	}

	return or.X
}
