package feature

import (
	"strings"
	"testing"

	"github.com/ecoloop/matchkit/core"
)

func sampleProducts() []core.Product {
	return []core.Product{
		{
			ID: "p1", Name: "Steel beams", SupplyType: "offer",
			Categories: []string{"metals", "construction"},
			Material:   core.Material{Name: "steel", Description: "recycled steel beams", AvailableQuantity: 500, UnitOfMeasure: "kg"},
			Location:   core.Location{Latitude: 52.01, Longitude: 4.02},
		},
		{
			ID: "p2", Name: "Steel plates", SupplyType: "offer",
			Categories: []string{"metals"},
			Material:   core.Material{Name: "steel", Description: "surplus steel plates", AvailableQuantity: 200, UnitOfMeasure: "kg"},
			Location:   core.Location{Latitude: 52.5, Longitude: 5.0},
		},
		{
			ID: "p3", Name: "Oak pallets", SupplyType: "offer",
			Categories: []string{"wood"},
			Material:   core.Material{Name: "oak", Description: "used oak pallets", AvailableQuantity: 80, UnitOfMeasure: "piece"},
			Location:   core.Location{Latitude: 51.9, Longitude: 4.4},
		},
		{
			ID: "p4", Name: "Plastic granulate", SupplyType: "offer",
			Categories: []string{"plastics"},
			Material:   core.Material{Name: "plastic", Description: "mixed plastic granulate", AvailableQuantity: 300, UnitOfMeasure: "piece"},
			Location:   core.Location{Latitude: 53.2, Longitude: 6.5},
		},
	}
}

func TestDoc(t *testing.T) {
	p := sampleProducts()[0]
	doc := Doc(p)

	// 名称与分类各重复两次
	if got := strings.Count(doc, "beams"); got != 3 { // 名称两次 + 描述一次
		t.Errorf("beams occurrences = %d, want 3", got)
	}
	if got := strings.Count(doc, "construction"); got != 2 {
		t.Errorf("construction occurrences = %d, want 2", got)
	}
	if strings.Contains(doc, "  ") {
		t.Errorf("doc contains unpadded whitespace: %q", doc)
	}
	if doc != strings.ToLower(doc) {
		t.Errorf("doc not lowercased: %q", doc)
	}
}

func TestDocMissingFields(t *testing.T) {
	doc := Doc(core.Product{ID: "px", Name: "Scrap"})
	if want := "scrap scrap"; doc != want {
		t.Errorf("Doc = %q, want %q", doc, want)
	}
}

func TestBuild(t *testing.T) {
	t.Run("empty corpus", func(t *testing.T) {
		s := Build(nil)
		if !s.Empty() {
			t.Error("expected empty space")
		}
	})

	t.Run("populated corpus", func(t *testing.T) {
		s := Build(sampleProducts())
		if s.Empty() {
			t.Fatal("expected non-empty space")
		}
		if len(s.Docs) != 4 || len(s.Vectors) != 4 || len(s.Numeric) != 4 {
			t.Fatalf("docs/vectors/numeric = %d/%d/%d, want 4 each", len(s.Docs), len(s.Vectors), len(s.Numeric))
		}
		for i, row := range s.Numeric {
			for j, val := range row {
				if val < 0 || val > 1 {
					t.Errorf("numeric[%d][%d] = %v, want within [0,1]", i, j, val)
				}
			}
		}
	})
}

func TestSpaceExplain(t *testing.T) {
	s := Build(sampleProducts())

	terms := s.Explain("metals metals metals steel steel steel", s.Docs[0], 5)
	if len(terms) == 0 {
		t.Fatal("expected matching terms")
	}
	names := make(map[string]bool, len(terms))
	for i, term := range terms {
		names[term.Term] = true
		if term.Relevance <= 0 {
			t.Errorf("term %q relevance = %v, want > 0", term.Term, term.Relevance)
		}
		if i > 0 && terms[i-1].Relevance < term.Relevance {
			t.Errorf("terms not sorted by relevance: %v", terms)
		}
	}
	if !names["steel"] || !names["metals"] {
		t.Errorf("expected steel and metals in matching terms, got %v", terms)
	}

	if got := s.Explain("oak wood", s.Docs[0], 5); len(got) != 0 {
		t.Errorf("expected no matching terms, got %v", got)
	}
}
