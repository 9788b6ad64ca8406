// Package value interprets Lua literal expressions as data and edits table
// constructors as ordered collections of fields.
//
// A [Value] is the semantic content of a literal: null, boolean, string,
// number or table. [FromExpr] reads one from a [lua.Expr], [As] coerces it
// to a Go type, and [ToExpr] writes Go data back as an expression.
//
// A [Table] is a view over a [lua.Table] that supports lookup, insertion,
// removal and reordering of fields while keeping comments and layout:
//
//	t := value.NewTable(node)
//	if pos, ok := t.IndexOf("name"); ok {
//		t.InsertAfter(pos, "localised_name", []string{"item-name.foo"})
//	}
//	node = t.Node()
package value
