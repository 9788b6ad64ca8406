package lua

import (
	"iter"
)

// Node is any element of the syntax tree, tokens included.
type Node interface {
	// Tokens yields every token of the node in source order.
	Tokens() iter.Seq[*Token]
}

// Expr is an expression node.
//
// Only the shapes needed to edit table constructors are structured:
// [*Literal], [*Unary], [*Binary] (for "and"/"or"), and [*Table].
// Anything else is kept verbatim as [*Raw].
type Expr interface {
	Node
	expr()
}

// Literal is a single-token expression: a number, string, name, "nil",
// "true", "false" or "...".
type Literal struct {
	Token *Token
}

// Unary is a prefix operator ("-", "not" or "#") applied to an operand.
type Unary struct {
	Op *Token
	X  Expr
}

// Binary is an "and" or "or" expression.
type Binary struct {
	X  Expr
	Op *Token
	Y  Expr
}

// Raw is an unstructured run of tokens and table constructors.
// Each item is either a [*Token] or a [*Table].
type Raw struct {
	Items []Node
}

// FieldKind distinguishes the three field forms of a table constructor.
type FieldKind int

const (
	FieldPositional FieldKind = iota // value
	FieldNamed                       // name = value
	FieldKeyed                       // [key] = value
)

// Field is one entry of a table constructor.
type Field struct {
	Kind FieldKind

	// LBracket, Key and RBracket are set for FieldKeyed.
	LBracket *Token
	Key      Expr
	RBracket *Token

	// Name is set for FieldNamed.
	Name *Token

	// Assign is the "=" of a named or keyed field.
	Assign *Token

	Value Expr

	// Sep is the trailing "," or ";", or nil.
	Sep *Token
}

// Table is a table constructor.
type Table struct {
	Open   *Token
	Fields []*Field
	Close  *Token
}

// File is a parsed chunk. Statements are not structured: the body is a run
// of tokens in which every table constructor is a [*Table].
type File struct {
	Body *Raw
	EOF  *Token
}

func (*Literal) expr() {}
func (*Unary) expr()   {}
func (*Binary) expr()  {}
func (*Raw) expr()     {}
func (*Table) expr()   {}

// Tokens implements [Node].
func (x *Literal) Tokens() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		yield(x.Token)
	}
}

// Tokens implements [Node].
func (x *Unary) Tokens() iter.Seq[*Token] {
	return concat(x.Op, x.X)
}

// Tokens implements [Node].
func (x *Binary) Tokens() iter.Seq[*Token] {
	return concat(x.X, x.Op, x.Y)
}

// Tokens implements [Node].
func (x *Raw) Tokens() iter.Seq[*Token] {
	return concat(x.Items...)
}

// Tokens implements [Node].
func (f *Field) Tokens() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		var parts []Node

		switch f.Kind {
		case FieldKeyed:
			parts = []Node{f.LBracket, f.Key, f.RBracket, f.Assign}
		case FieldNamed:
			parts = []Node{f.Name, f.Assign}
		}

		parts = append(parts, f.Value)
		if f.Sep != nil {
			parts = append(parts, f.Sep)
		}

		for tok := range concat(parts...) {
			if !yield(tok) {
				return
			}
		}
	}
}

// Tokens implements [Node].
func (x *Table) Tokens() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		if !yield(x.Open) {
			return
		}

		for _, f := range x.Fields {
			for tok := range f.Tokens() {
				if !yield(tok) {
					return
				}
			}
		}

		yield(x.Close)
	}
}

// Tokens implements [Node].
func (f *File) Tokens() iter.Seq[*Token] {
	return concat(f.Body, f.EOF)
}

// First returns the first token of n, or nil if n has none.
func First(n Node) *Token {
	for tok := range n.Tokens() {
		return tok
	}

	return nil
}

// Last returns the last token of n, or nil if n has none.
func Last(n Node) *Token {
	var last *Token
	for tok := range n.Tokens() {
		last = tok
	}

	return last
}

// concat yields the tokens of each non-nil node in turn.
func concat(nodes ...Node) iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		for _, n := range nodes {
			if isNil(n) {
				continue
			}

			for tok := range n.Tokens() {
				if !yield(tok) {
					return
				}
			}
		}
	}
}

func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Token:
		return n == nil
	case *Literal:
		return n == nil
	case *Unary:
		return n == nil
	case *Binary:
		return n == nil
	case *Raw:
		return n == nil
	case *Table:
		return n == nil
	case *Field:
		return n == nil
	case *File:
		return n == nil
	}

	return false
}

// Clone returns a deep copy of n. Tokens and trivia are copied as well, so
// the copy can be edited without affecting n.
func Clone[N Node](n N) N {
	c, _ := clone(n).(N)

	return c
}

func clone(n Node) Node {
	if isNil(n) {
		return n
	}

	switch n := n.(type) {
	case *Token:
		return n.clone()
	case *Literal:
		return &Literal{Token: n.Token.clone()}
	case *Unary:
		return &Unary{Op: n.Op.clone(), X: cloneExpr(n.X)}
	case *Binary:
		return &Binary{
			X:  cloneExpr(n.X),
			Op: n.Op.clone(),
			Y:  cloneExpr(n.Y),
		}
	case *Raw:
		items := make([]Node, len(n.Items))
		for i, item := range n.Items {
			items[i] = clone(item)
		}

		return &Raw{Items: items}
	case *Table:
		fields := make([]*Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = cloneField(f)
		}

		return &Table{
			Open:   n.Open.clone(),
			Fields: fields,
			Close:  n.Close.clone(),
		}
	case *Field:
		return cloneField(n)
	case *File:
		body, _ := clone(n.Body).(*Raw)

		return &File{Body: body, EOF: n.EOF.clone()}
	}

	return n
}

func cloneExpr(e Expr) Expr {
	if isNil(e) {
		return nil
	}

	c, _ := clone(e).(Expr)

	return c
}

func cloneField(f *Field) *Field {
	return &Field{
		Kind:     f.Kind,
		LBracket: f.LBracket.clone(),
		Key:      cloneExpr(f.Key),
		RBracket: f.RBracket.clone(),
		Name:     f.Name.clone(),
		Assign:   f.Assign.clone(),
		Value:    cloneExpr(f.Value),
		Sep:      f.Sep.clone(),
	}
}
