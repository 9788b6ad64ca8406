package lua

import (
	"errors"
	"strings"
	"testing"
)

const prototypeSource = `-- prototypes
data:extend({
  {
    type = "recipe",
    name = "iron-gear-wheel",  -- gear
    enabled = true,
    ingredients = {{"iron-plate", 2}},
    results = {{type = "item", name = "iron-gear-wheel", amount = 1}};
    [ "weird key" ] = -1,
    fallback = mods["foo"] and "a" or "b",
    call = util.by_pixel(0, -8),
    fn = function(x) return {x, x} end,
  },
})
`

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"prototype", prototypeSource},
		{"nested", "t = {{{}}, {a = {b = {c = 1}}}}"},
		{"trailing trivia", "x = {1}\n\n-- end\n"},
		{"semicolons", "t = {1; 2; 3;}"},
		{"control flow", "if a then b = {1} elseif c then d() else e = {} end\nwhile x do y() end\nrepeat z() until w"},
		{"index", "a[1] = b[c[2]]"},
		{"long strings", "t = {[[a]], [==[b]==]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got := f.String(); got != tt.input {
				t.Errorf("expected %q, got %q", tt.input, got)
			}
		})
	}
}

func TestParse_Fields(t *testing.T) {
	f, err := Parse(prototypeSource)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var proto *Table
	for tbl := range Tables(f) {
		if len(tbl.Fields) > 0 && tbl.Fields[0].Kind == FieldNamed &&
			tbl.Fields[0].Name.Text == "type" {
			proto = tbl

			break
		}
	}

	if proto == nil {
		t.Fatal("expected to find prototype table")
	}

	tests := []struct {
		index int
		kind  FieldKind
		key   string
		check func(Expr) bool
	}{
		{0, FieldNamed, "type", isA[*Literal]},
		{3, FieldNamed, "ingredients", isA[*Table]},
		{5, FieldKeyed, "", isA[*Unary]},
		{6, FieldNamed, "fallback", isA[*Binary]},
		{7, FieldNamed, "call", isA[*Raw]},
		{8, FieldNamed, "fn", isA[*Raw]},
	}

	if len(proto.Fields) != 9 {
		t.Fatalf("expected 9 fields, got %d", len(proto.Fields))
	}

	for _, tt := range tests {
		fld := proto.Fields[tt.index]
		if fld.Kind != tt.kind {
			t.Errorf("field %d: expected kind %v, got %v", tt.index, tt.kind, fld.Kind)
		}

		if tt.key != "" && fld.Name.Text != tt.key {
			t.Errorf("field %d: expected name %q, got %q", tt.index, tt.key, fld.Name.Text)
		}

		if !tt.check(fld.Value) {
			t.Errorf("field %d: unexpected value type %T", tt.index, fld.Value)
		}
	}

	if sep := proto.Fields[4].Sep; !sep.IsSymbol(";") {
		t.Errorf("expected ';' separator on results, got %v", sep)
	}
}

func isA[T Expr](x Expr) bool {
	_, ok := x.(T)

	return ok
}

func TestParseExpr_Fallback(t *testing.T) {
	x, err := ParseExpr(`a and b or c`)
	if err != nil {
		t.Fatalf("ParseExpr() error = %v", err)
	}

	or, ok := x.(*Binary)
	if !ok || !or.Op.IsKeyword("or") {
		t.Fatalf("expected top-level or, got %T", x)
	}

	and, ok := or.X.(*Binary)
	if !ok || !and.Op.IsKeyword("and") {
		t.Fatalf("expected and on the left, got %T", or.X)
	}

	if Sprint(and.Y) != " b" {
		t.Errorf("expected %q, got %q", " b", Sprint(and.Y))
	}
}

func TestParseExpr_Parenthesized(t *testing.T) {
	x, err := ParseExpr(`(a or b) and c`)
	if err != nil {
		t.Fatalf("ParseExpr() error = %v", err)
	}

	and, ok := x.(*Binary)
	if !ok || !and.Op.IsKeyword("and") {
		t.Fatalf("expected top-level and, got %T", x)
	}

	if _, ok := and.X.(*Raw); !ok {
		t.Errorf("expected parenthesized operand to be raw, got %T", and.X)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unclosed table", "t = {1, 2", ErrUnbalanced},
		{"unclosed paren", "f(1", ErrUnbalanced},
		{"stray brace", "x = 1 }", ErrUnbalanced},
		{"mismatched", "f(1]", ErrUnbalanced},
		{"missing end", "function f() return 1", ErrUnbalanced},
		{"empty field", "t = {1,,2}", ErrExpectedExpr},
		{"keyed without value", "t = {[1]}", ErrExpectedSymbol},
		{"lex error", `t = {"abc}`, ErrUnterminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_ErrorSnippet(t *testing.T) {
	_, err := Parse("t = {\n  a = ,\n}")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	msg := err.Error()
	if !strings.Contains(msg, "line 2, column 7") {
		t.Errorf("expected position in message, got %q", msg)
	}

	if !strings.Contains(msg, "2 |   a = ,") || !strings.Contains(msg, "^") {
		t.Errorf("expected snippet with caret, got %q", msg)
	}
}

func TestClone_Independent(t *testing.T) {
	f, err := Parse("t = {a = 1}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	c := Clone(f)
	for tbl := range Tables(c) {
		tbl.Fields[0].Name.Text = "b"
	}

	if f.String() != "t = {a = 1}" {
		t.Errorf("original modified: %q", f.String())
	}

	if c.String() != "t = {b = 1}" {
		t.Errorf("expected clone to change, got %q", c.String())
	}
}
