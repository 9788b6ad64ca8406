package value

import (
	"math"
	"reflect"

	"github.com/ardnew/protofix/lua"
)

var (
	valueType = reflect.TypeFor[Value]()
	tableType = reflect.TypeFor[*Table]()
	exprType  = reflect.TypeFor[lua.Expr]()
	anyType   = reflect.TypeFor[any]()
)

// As coerces v to T.
//
// Supported targets are bool, string, the integer and floating-point kinds,
// *[Table], [Value], [lua.Expr], any (see [Value.Any]), pointers (null
// coerces to a nil pointer), and slices or arrays of any supported type.
// Integers require an integral number within range.
//
// A sequence is built from the positional fields of a table, in order; named
// and keyed fields are ignored, as are positional fields that do not
// coerce to the element type. An array fails unless exactly as many
// elements remain as the array has.
func As[T any](v Value) (T, bool) {
	var out T

	if !assign(reflect.ValueOf(&out).Elem(), v) {
		var zero T

		return zero, false
	}

	return out, true
}

// ExprAs coerces the value of the literal expression x to T. An expression
// that is not a literal coerces only to [lua.Expr].
func ExprAs[T any](x lua.Expr) (T, bool) { return exprAs[T](x) }

func exprAs[T any](x lua.Expr) (T, bool) {
	var out T

	if !assignExpr(reflect.ValueOf(&out).Elem(), x) {
		var zero T

		return zero, false
	}

	return out, true
}

func assignExpr(dst reflect.Value, x lua.Expr) bool {
	if x == nil {
		return false
	}

	if dst.Type() == exprType {
		dst.Set(reflect.ValueOf(x))

		return true
	}

	v, ok := FromExpr(x)
	if !ok {
		return false
	}

	return assign(dst, v)
}

func assign(dst reflect.Value, v Value) bool {
	switch dst.Type() {
	case valueType:
		dst.Set(reflect.ValueOf(v))

		return true

	case tableType:
		if v.kind != KindTable {
			return false
		}

		dst.Set(reflect.ValueOf(v.t))

		return true

	case exprType:
		x, ok := TryExpr(v)
		if !ok {
			return false
		}

		dst.Set(reflect.ValueOf(x))

		return true

	case anyType:
		if a := v.Any(); a != nil {
			dst.Set(reflect.ValueOf(a))
		}

		return true
	}

	switch dst.Kind() {
	case reflect.Bool:
		if v.kind != KindBool {
			return false
		}

		dst.SetBool(v.b)

	case reflect.String:
		if v.kind != KindString {
			return false
		}

		dst.SetString(v.s)

	case reflect.Float32, reflect.Float64:
		if v.kind != KindNumber {
			return false
		}

		dst.SetFloat(float64(v.n))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := integral(v)
		if !ok || f < math.MinInt64 || f >= math.MaxInt64 || dst.OverflowInt(int64(f)) {
			return false
		}

		dst.SetInt(int64(f))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := integral(v)
		if !ok || f < 0 || f >= math.MaxUint64 || dst.OverflowUint(uint64(f)) {
			return false
		}

		dst.SetUint(uint64(f))

	case reflect.Pointer:
		if v.kind == KindNull {
			dst.SetZero()

			return true
		}

		p := reflect.New(dst.Type().Elem())
		if !assign(p.Elem(), v) {
			return false
		}

		dst.Set(p)

	case reflect.Slice:
		elems, ok := coerceElems(dst.Type().Elem(), v)
		if !ok {
			return false
		}

		s := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
		for i, x := range elems {
			s.Index(i).Set(x)
		}

		dst.Set(s)

	case reflect.Array:
		elems, ok := coerceElems(dst.Type().Elem(), v)
		if !ok || len(elems) != dst.Len() {
			return false
		}

		a := reflect.New(dst.Type()).Elem()
		for i, x := range elems {
			a.Index(i).Set(x)
		}

		dst.Set(a)

	default:
		return false
	}

	return true
}

func integral(v Value) (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	f := float64(v.n)
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}

	return f, true
}

// coerceElems coerces the positional fields of v to typ, in order. Fields
// that do not coerce are left out.
func coerceElems(typ reflect.Type, v Value) ([]reflect.Value, bool) {
	exprs, ok := positional(v)
	if !ok {
		return nil, false
	}

	elems := make([]reflect.Value, 0, len(exprs))

	for _, x := range exprs {
		e := reflect.New(typ).Elem()
		if assignExpr(e, x) {
			elems = append(elems, e)
		}
	}

	return elems, true
}

func positional(v Value) ([]lua.Expr, bool) {
	if v.kind != KindTable {
		return nil, false
	}

	var elems []lua.Expr

	for _, f := range v.t.Fields() {
		if f.Kind() == lua.FieldPositional {
			elems = append(elems, f.Value())
		}
	}

	return elems, true
}
