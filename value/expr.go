package value

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/ardnew/protofix/lua"
)

// ToExpr converts a Go value to a Lua expression.
//
// A [lua.Expr] is returned unchanged and a *[Table] becomes its
// constructor. Otherwise the conversion is the inverse of [As]: nil and nil
// pointers give "nil", non-nil pointers give their pointee, slices and arrays
// give a table of positional fields, and maps with string keys give a table
// of named fields in key order. Negative numbers are written as unary minus
// applied to a number literal.
//
// ToExpr panics if v has no Lua representation; see [TryExpr].
func ToExpr(v any) lua.Expr {
	x, ok := TryExpr(v)
	if !ok {
		panic(fmt.Sprintf("value: cannot convert %T to an expression", v))
	}

	return x
}

// TryExpr is like [ToExpr] but reports false instead of panicking.
// Non-finite numbers, channels, functions and maps with non-string keys
// have no representation.
func TryExpr(v any) (lua.Expr, bool) {
	switch v := v.(type) {
	case nil:
		return keyword("nil"), true
	case *Table:
		if v == nil {
			return keyword("nil"), true
		}

		return v.Node(), true
	case Value:
		return valueExpr(v)
	case lua.Expr:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return keyword("nil"), true
		}

		return v, true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return boolExpr(rv.Bool()), true

	case reflect.String:
		return stringExpr(rv.String()), true

	case reflect.Float32:
		return numberExpr(rv.Float(), 32)

	case reflect.Float64:
		return numberExpr(rv.Float(), 64)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numberExpr(float64(rv.Int()), 64)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return numberExpr(float64(rv.Uint()), 64)

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return keyword("nil"), true
		}

		return TryExpr(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		t := &Table{}

		for i := range rv.Len() {
			x, ok := TryExpr(rv.Index(i).Interface())
			if !ok {
				return nil, false
			}

			t.Push(x)
		}

		return t.Node(), true

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		t := &Table{}

		for _, k := range keys {
			x, ok := TryExpr(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if !ok {
				return nil, false
			}

			t.Insert(k, x)
		}

		return t.Node(), true
	}

	return nil, false
}

func valueExpr(v Value) (lua.Expr, bool) {
	switch v.kind {
	case KindBool:
		return boolExpr(v.b), true
	case KindString:
		return stringExpr(v.s), true
	case KindNumber:
		return numberExpr(float64(v.n), 32)
	case KindTable:
		return v.t.Node(), true
	}

	return keyword("nil"), true
}

func keyword(s string) lua.Expr {
	return &lua.Literal{Token: lua.Keyword(s)}
}

func boolExpr(b bool) lua.Expr {
	if b {
		return keyword("true")
	}

	return keyword("false")
}

func stringExpr(s string) lua.Expr {
	return &lua.Literal{Token: lua.NewToken(lua.KindString, lua.Quote(s))}
}

func numberExpr(f float64, bitSize int) (lua.Expr, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}

	if f < 0 {
		lit := &lua.Literal{Token: lua.NewToken(lua.KindNumber, lua.FormatNumber(-f, bitSize))}

		return &lua.Unary{Op: lua.Symbol("-"), X: lit}, true
	}

	return &lua.Literal{Token: lua.NewToken(lua.KindNumber, lua.FormatNumber(f, bitSize))}, true
}
