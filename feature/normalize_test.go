package feature

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "lowercases", in: "Steel Beams", want: "steel beams"},
		{name: "punctuation to space", in: "high-grade steel, recycled!", want: "high grade steel recycled"},
		{name: "collapses whitespace", in: "  steel \t beams\n", want: "steel beams"},
		{name: "keeps digits and underscore", in: "grade_304 steel 2024", want: "grade_304 steel 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "drops single-char tokens", in: "a steel b beam", want: []string{"steel", "beam"}},
		{name: "normalizes before splitting", in: "Steel-Beams", want: []string{"steel", "beams"}},
		{name: "empty input", in: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
