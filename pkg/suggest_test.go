package pkg

import (
	"slices"
	"testing"
)

func TestSuggest(t *testing.T) {
	names := []string{"recipe", "beam", "machine", "offshore_pump", "turret", "hr_version", "fluid_boxes"}

	tests := []struct {
		name  string
		input string
		limit int
		want  []string
	}{
		{name: "subsequence", input: "fluid", want: []string{"fluid_boxes"}},
		{name: "transposed letters", input: "recpie", want: []string{"recipe"}},
		{name: "missing letter", input: "turet", want: []string{"turret"}},
		{name: "nothing close", input: "zzzzzz"},
		{name: "limit", input: "e", limit: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.input, names, tt.limit)

			if tt.limit > 0 {
				if len(got) != tt.limit {
					t.Errorf("expected %d suggestions, got %v", tt.limit, got)
				}

				return
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"recpie", "recipe", 2},
		{"turet", "turret", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	if !slices.Equal(closest("beem", []string{"beam", "bean", "x"}), []string{"beam", "bean"}) {
		t.Error("expected candidates ordered by distance")
	}
}
