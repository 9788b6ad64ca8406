package value

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/protofix/lua"
)

// Field is one entry of a [Table] view.
type Field struct {
	at    int
	field *lua.Field
}

// At returns the index of the field in the table it was read from, or the
// table length at the time a positional field was added.
func (f Field) At() int { return f.at }

// Kind returns the syntactic form of the field.
func (f Field) Kind() lua.FieldKind { return f.field.Kind }

// Key returns the lookup key of the field: the name of a named field, or
// the decimal original index of a positional field. Bracket-keyed fields
// have no lookup key.
func (f Field) Key() (string, bool) {
	switch f.field.Kind {
	case lua.FieldNamed:
		return f.field.Name.Text, true
	case lua.FieldPositional:
		return strconv.Itoa(f.at), true
	}

	return "", false
}

// Value returns the value expression of the field.
func (f Field) Value() lua.Expr { return f.field.Value }

// Leading returns the trivia preceding the field.
func (f Field) Leading() []lua.Trivia {
	if tok := lua.First(f.field); tok != nil {
		return tok.Leading
	}

	return nil
}

// Node returns the underlying syntax node.
func (f Field) Node() *lua.Field { return f.field }

// Table is an ordered, editable view of a table constructor.
//
// The view owns its list of fields; editing it never changes the node it
// was created from. [Table.Node] builds the edited constructor.
type Table struct {
	open   *lua.Token
	close  *lua.Token
	fields []Field
}

// NewTable returns a view of the fields of node. A nil node gives an empty
// table.
func NewTable(node *lua.Table) *Table {
	t := &Table{}

	if node == nil {
		return t
	}

	t.open, t.close = node.Open, node.Close
	t.fields = make([]Field, len(node.Fields))

	for i, f := range node.Fields {
		c := *f
		t.fields[i] = Field{at: i, field: &c}
	}

	return t
}

// Node reconstructs a table constructor from the current fields, keeping
// the original braces. Every field but the last is given a separator if it
// has none.
func (t *Table) Node() *lua.Table {
	node := &lua.Table{
		Open:   t.open,
		Close:  t.close,
		Fields: make([]*lua.Field, len(t.fields)),
	}

	if node.Open == nil {
		node.Open = lua.Symbol("{")
	}

	if node.Close == nil {
		node.Close = lua.Symbol("}")
	}

	for i, f := range t.fields {
		if i < len(t.fields)-1 && f.field.Sep == nil {
			f.field.Sep = lua.Symbol(",")
		}

		node.Fields[i] = f.field
	}

	return node
}

// Expr returns [Table.Node] as an expression.
func (t *Table) Expr() lua.Expr { return t.Node() }

// Len returns the number of fields.
func (t *Table) Len() int { return len(t.fields) }

// IsEmpty reports whether the table has no fields.
func (t *Table) IsEmpty() bool { return len(t.fields) == 0 }

// Fields yields the fields with their current positions.
func (t *Table) Fields() iter.Seq2[int, Field] {
	return func(yield func(int, Field) bool) {
		for i, f := range t.fields {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Field returns the field at pos.
func (t *Table) Field(pos int) (Field, bool) {
	if pos < 0 || pos >= len(t.fields) {
		return Field{}, false
	}

	return t.fields[pos], true
}

// IndexOf returns the position of the first field with the given key.
func (t *Table) IndexOf(key string) (int, bool) {
	for i, f := range t.fields {
		if k, ok := f.Key(); ok && k == key {
			return i, true
		}
	}

	return -1, false
}

// ContainsKey reports whether a field has the given key.
func (t *Table) ContainsKey(key string) bool {
	_, ok := t.IndexOf(key)

	return ok
}

// ContainsKeys reports whether every key is present.
func (t *Table) ContainsKeys(keys ...string) bool {
	for _, key := range keys {
		if !t.ContainsKey(key) {
			return false
		}
	}

	return true
}

// GetExpr returns the value expression of the field with the given key.
func (t *Table) GetExpr(key string) (lua.Expr, bool) {
	pos, ok := t.IndexOf(key)
	if !ok {
		return nil, false
	}

	return t.fields[pos].field.Value, true
}

// Remove removes the field with the given key and returns its value.
func (t *Table) Remove(key string) (lua.Expr, bool) {
	pos, ok := t.IndexOf(key)
	if !ok {
		return nil, false
	}

	x := t.fields[pos].field.Value
	t.fields = slices.Delete(t.fields, pos, pos+1)

	return x, true
}

// RemoveAt removes the field at pos and returns it.
func (t *Table) RemoveAt(pos int) Field {
	f := t.fields[pos]
	t.fields = slices.Delete(t.fields, pos, pos+1)

	return f
}

// Insert appends a named field. The value is converted with [ToExpr].
func (t *Table) Insert(key string, v any) {
	t.InsertAt(len(t.fields), key, v)
}

// InsertAt inserts a named field at pos, shifting later fields.
//
// The field takes the leading trivia of the current last field so that it
// lines up with its neighbors. A key that is not a valid identifier is
// written as a bracketed string key. InsertAt panics if pos is out of range.
func (t *Table) InsertAt(pos int, key string, v any) {
	x := ToExpr(v)
	spaceBefore(x)

	f := namedField(key, x, t.lastLeading())

	t.fields = slices.Insert(t.fields, pos, Field{at: len(t.fields), field: f})
}

// SetAt replaces the value of the field at pos, keeping its key, separator
// and the trivia before the value. It panics if pos is out of range.
func (t *Table) SetAt(pos int, v any) {
	old := t.fields[pos]

	x := ToExpr(v)
	if first, prev := lua.First(x), lua.First(old.field.Value); first != nil && prev != nil {
		first.Leading = slices.Clone(prev.Leading)
	}

	c := *old.field
	c.Value = x

	t.fields[pos] = Field{at: old.at, field: &c}
}

// Set replaces the value of the field with the given key, or appends a
// new field if there is none.
func (t *Table) Set(key string, v any) {
	if pos, ok := t.IndexOf(key); ok {
		t.SetAt(pos, v)

		return
	}

	t.Insert(key, v)
}

// RenameAt gives the field at pos the name key, keeping its position,
// value and trivia. It panics if pos is out of range.
func (t *Table) RenameAt(pos int, key string) {
	old := t.fields[pos]

	x := old.field.Value
	leading := slices.Clone(old.Leading())

	if first := lua.First(x); first != nil && old.field.Kind == lua.FieldPositional {
		first.Leading = []lua.Trivia{lua.Space(" ")}
	}

	spaceBefore(x)

	f := namedField(key, x, leading)
	f.Sep = old.field.Sep

	if old.field.Assign != nil {
		f.Assign = old.field.Assign
	}

	t.fields[pos] = Field{at: old.at, field: f}
}

func namedField(key string, x lua.Expr, leading []lua.Trivia) *lua.Field {
	f := &lua.Field{
		Assign: lua.Symbol("="),
		Value:  x,
	}

	f.Assign.Leading = []lua.Trivia{lua.Space(" ")}

	if lua.IsName(key) {
		f.Kind = lua.FieldNamed
		f.Name = lua.Name(key)
		f.Name.Leading = leading
	} else {
		f.Kind = lua.FieldKeyed
		f.LBracket = lua.Symbol("[")
		f.LBracket.Leading = leading
		f.Key = &lua.Literal{Token: lua.NewToken(lua.KindString, lua.Quote(key))}
		f.RBracket = lua.Symbol("]")
	}

	return f
}

// InsertAfter inserts a named field immediately after pos.
func (t *Table) InsertAfter(pos int, key string, v any) {
	t.InsertAt(pos+1, key, v)
}

// InsertBefore inserts a named field at pos-1. It panics if pos is 0.
func (t *Table) InsertBefore(pos int, key string, v any) {
	if pos == 0 {
		panic("value: InsertBefore position 0")
	}

	t.InsertAt(pos-1, key, v)
}

// Push appends a positional field.
func (t *Table) Push(v any) {
	x := ToExpr(v)

	if first := lua.First(x); first != nil && len(first.Leading) == 0 {
		first.Leading = t.lastLeading()
	}

	f := &lua.Field{
		Kind:  lua.FieldPositional,
		Value: x,
	}

	t.fields = append(t.fields, Field{at: len(t.fields), field: f})
}

// Extend appends all fields of o, which should not be used afterwards.
func (t *Table) Extend(o *Table) {
	t.fields = append(t.fields, o.fields...)
}

// Clear removes all fields.
func (t *Table) Clear() {
	t.fields = nil
}

// With appends a named field and returns t.
func (t *Table) With(key string, v any) *Table {
	t.Insert(key, v)

	return t
}

// Clone returns a view with its own copy of the field list. The fields'
// syntax nodes are shared.
func (t *Table) Clone() *Table {
	return &Table{
		open:   t.open,
		close:  t.close,
		fields: slices.Clone(t.fields),
	}
}

// Any converts the table to plain Go data; see [Value.Any].
func (t *Table) Any() any {
	positional := true
	for _, f := range t.fields {
		if f.field.Kind != lua.FieldPositional {
			positional = false

			break
		}
	}

	if positional {
		out := make([]any, 0, len(t.fields))

		for _, f := range t.fields {
			if v, ok := FromExpr(f.field.Value); ok {
				out = append(out, v.Any())
			}
		}

		return out
	}

	out := make(map[string]any, len(t.fields))

	for _, f := range t.fields {
		key, ok := f.Key()
		if !ok {
			continue
		}

		if v, ok := FromExpr(f.field.Value); ok {
			if _, dup := out[key]; !dup {
				out[key] = v.Any()
			}
		}
	}

	return out
}

// lastLeading returns trivia for a new field, copied from the last field.
// Comments are not copied; only the whitespace just before the field is.
// The first field of an empty table gets none, and a field following one
// without trivia gets a single space.
func (t *Table) lastLeading() []lua.Trivia {
	if len(t.fields) == 0 {
		return nil
	}

	tr := t.fields[len(t.fields)-1].Leading()
	if len(tr) == 0 {
		return []lua.Trivia{lua.Space(" ")}
	}

	if !slices.ContainsFunc(tr, func(t lua.Trivia) bool {
		return t.Kind == lua.TriviaComment
	}) {
		return slices.Clone(tr)
	}

	if last := tr[len(tr)-1]; last.Kind == lua.TriviaSpace {
		if i := strings.LastIndexByte(last.Text, '\n'); i >= 0 {
			return []lua.Trivia{lua.Space(last.Text[i:])}
		}
	}

	return []lua.Trivia{lua.Space(" ")}
}

func spaceBefore(x lua.Expr) {
	if first := lua.First(x); first != nil && len(first.Leading) == 0 {
		first.Leading = []lua.Trivia{lua.Space(" ")}
	}
}

// Get returns the value of the field with the given key coerced to T.
func Get[T any](t *Table, key string) (T, bool) {
	x, ok := t.GetExpr(key)
	if !ok {
		var zero T

		return zero, false
	}

	return exprAs[T](x)
}

// GetAt returns the value of the field at pos coerced to T.
func GetAt[T any](t *Table, pos int) (T, bool) {
	f, ok := t.Field(pos)
	if !ok {
		var zero T

		return zero, false
	}

	return exprAs[T](f.field.Value)
}

// RemoveValue removes the field with the given key and returns its value
// coerced to T. The field is left in place if coercion fails.
func RemoveValue[T any](t *Table, key string) (T, bool) {
	v, _, ok := RemoveValuePos[T](t, key)

	return v, ok
}

// RemoveValuePos is like [RemoveValue] and also returns the position the
// field was removed from.
func RemoveValuePos[T any](t *Table, key string) (T, int, bool) {
	var zero T

	pos, ok := t.IndexOf(key)
	if !ok {
		return zero, -1, false
	}

	v, ok := exprAs[T](t.fields[pos].field.Value)
	if !ok {
		return zero, -1, false
	}

	t.fields = slices.Delete(t.fields, pos, pos+1)

	return v, pos, true
}
