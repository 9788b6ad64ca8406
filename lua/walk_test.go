package lua

import (
	"slices"
	"strings"
	"testing"
)

func TestSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "t = {a = 1}", "t = {a = 1}", true},
		{"whitespace", "t={a=1,b=2}", "t = {\n  a = 1,\n  b = 2,\n}\n", true},
		{"separators", "t = {1, 2,}", "t = { 1; 2 }", true},
		{"comments", "-- x\nt = {1} -- y", "t = {1}", true},
		{"value differs", "t = {a = 1}", "t = {a = 2}", false},
		{"name differs", "t = {a = 1}", "t = {b = 1}", false},
		{"field kind differs", "t = {a = 1}", `t = {["a"] = 1}`, false},
		{"order differs", "t = {a = 1, b = 2}", "t = {b = 2, a = 1}", false},
		{"extra field", "t = {1}", "t = {1, 2}", false},
		{"statement differs", "x = {}", "y = {}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.a)
			if err != nil {
				t.Fatalf("Parse(a) error = %v", err)
			}

			b, err := Parse(tt.b)
			if err != nil {
				t.Fatalf("Parse(b) error = %v", err)
			}

			if got := Similar(a, b); got != tt.want {
				t.Errorf("Similar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTables_PreOrder(t *testing.T) {
	f, err := Parse("t = {1, {2, {3}}, {4}}\nu = f({5})")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var got []string
	for tbl := range Tables(f) {
		got = append(got, strings.TrimSpace(Sprint(tbl.Fields[0].Value)))
	}

	want := []string{"1", "2", "3", "4", "5"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRewrite_VisitsReplacement(t *testing.T) {
	f, err := Parse("t = {x}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var visits []string

	Rewrite(f, func(tbl *Table) *Table {
		visits = append(visits, strings.TrimSpace(Sprint(tbl)))

		if strings.TrimSpace(Sprint(tbl.Fields[0].Value)) != "x" {
			return tbl
		}

		x, err := ParseExpr("{{y}}")
		if err != nil {
			t.Fatalf("ParseExpr() error = %v", err)
		}

		repl, _ := x.(*Table)

		return repl
	})

	want := []string{"{x}", "{y}"}
	if !slices.Equal(visits, want) {
		t.Errorf("expected visits %v, got %v", want, visits)
	}

	expected, _ := Parse("t = {{y}}")
	if !Similar(f, expected) {
		t.Errorf("expected rewritten file similar to %q, got %q", "t = {{y}}", f.String())
	}
}

func TestRewrite_Unchanged(t *testing.T) {
	const src = "local t = {a = {b = {}}, c = d and {1} or {2}}\n"

	f, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	count := 0

	Rewrite(f, func(tbl *Table) *Table {
		count++

		return tbl
	})

	if count != 5 {
		t.Errorf("expected 5 tables visited, got %d", count)
	}

	if f.String() != src {
		t.Errorf("expected %q, got %q", src, f.String())
	}
}
