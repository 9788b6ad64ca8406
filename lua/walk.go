package lua

import (
	"iter"
)

// Rewrite replaces every table constructor in n with the result of fn.
//
// Tables are visited in pre-order: fn sees an outer table before any table
// nested in it, and the tables nested in fn's result are visited next. The
// node returned by fn takes the place of its argument; returning the
// argument leaves it in place. Rewrite returns n, or fn's result if n is
// itself a table.
func Rewrite(n Node, fn func(*Table) *Table) Node {
	switch n := n.(type) {
	case *File:
		rewriteItems(n.Body.Items, fn)

		return n
	case Expr:
		return rewriteExpr(n, fn)
	case *Field:
		rewriteField(n, fn)

		return n
	}

	return n
}

func rewriteExpr(x Expr, fn func(*Table) *Table) Expr {
	switch x := x.(type) {
	case *Table:
		t := fn(x)
		if t == nil {
			t = x
		}

		for _, f := range t.Fields {
			rewriteField(f, fn)
		}

		return t
	case *Unary:
		x.X = rewriteExpr(x.X, fn)
	case *Binary:
		x.X = rewriteExpr(x.X, fn)
		x.Y = rewriteExpr(x.Y, fn)
	case *Raw:
		rewriteItems(x.Items, fn)
	}

	return x
}

func rewriteField(f *Field, fn func(*Table) *Table) {
	if f.Key != nil {
		f.Key = rewriteExpr(f.Key, fn)
	}

	f.Value = rewriteExpr(f.Value, fn)
}

func rewriteItems(items []Node, fn func(*Table) *Table) {
	for i, item := range items {
		if t, ok := item.(*Table); ok {
			items[i] = rewriteExpr(t, fn)
		}
	}
}

// Tables yields every table constructor in n in pre-order.
func Tables(n Node) iter.Seq[*Table] {
	return func(yield func(*Table) bool) {
		walkTables(n, yield)
	}
}

func walkTables(n Node, yield func(*Table) bool) bool {
	switch n := n.(type) {
	case *File:
		return walkTables(n.Body, yield)
	case *Table:
		if !yield(n) {
			return false
		}

		for _, f := range n.Fields {
			if !walkTables(f, yield) {
				return false
			}
		}
	case *Field:
		if n.Key != nil && !walkTables(n.Key, yield) {
			return false
		}

		return walkTables(n.Value, yield)
	case *Unary:
		return walkTables(n.X, yield)
	case *Binary:
		return walkTables(n.X, yield) && walkTables(n.Y, yield)
	case *Raw:
		for _, item := range n.Items {
			if !walkTables(item, yield) {
				return false
			}
		}
	}

	return true
}
