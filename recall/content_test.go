package recall

import (
	"context"
	"strings"
	"testing"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/feature"
)

func contentProducts() []core.Product {
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

func TestContentRecall(t *testing.T) {
	space := feature.Build(contentProducts())
	node := &Content{Space: space}
	rctx := &core.RecommendContext{Query: &core.PreferenceQuery{
		Categories: []string{"metals"},
		Keywords:   []string{"steel"},
		TopN:       10,
	}}

	items, err := node.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("candidates = %d, want full corpus of 4", len(items))
	}

	scores := make(map[string]float64, len(items))
	for _, it := range items {
		scores[it.ID] = it.Score
		if it.MetaString("name") == "" {
			t.Errorf("item %s missing name meta", it.ID)
		}
		if it.MetaString("doc") == "" {
			t.Errorf("item %s missing doc meta", it.ID)
		}
		if lbl, ok := it.Labels["recall_source"]; !ok || lbl.Value != "content" {
			t.Errorf("item %s recall_source label = %v", it.ID, it.Labels["recall_source"])
		}
	}
	if scores["p1"] <= 0 || scores["p2"] <= 0 {
		t.Errorf("steel products should score positive, got p1=%v p2=%v", scores["p1"], scores["p2"])
	}
	if scores["p3"] != 0 || scores["p4"] != 0 {
		t.Errorf("unrelated products should score zero, got p3=%v p4=%v", scores["p3"], scores["p4"])
	}
}

func TestContentRecallEmptySpace(t *testing.T) {
	node := &Content{Space: feature.Build(nil)}
	rctx := &core.RecommendContext{Query: &core.PreferenceQuery{TopN: 5}}

	items, err := node.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("candidates = %d, want 0 for empty corpus", len(items))
	}
}

func TestQueryText(t *testing.T) {
	space := feature.Build(contentProducts())

	t.Run("categories and keywords tripled", func(t *testing.T) {
		text := QueryText(&core.PreferenceQuery{
			Categories: []string{"metals"},
			Keywords:   []string{"steel"},
			Units:      []string{"kg"},
		}, space)
		if got := strings.Count(text, "metals"); got != 3 {
			t.Errorf("metals occurrences = %d, want 3", got)
		}
		if got := strings.Count(text, "steel"); got != 3 {
			t.Errorf("steel occurrences = %d, want 3", got)
		}
		if got := strings.Count(text, "kg"); got != 1 {
			t.Errorf("kg occurrences = %d, want 1", got)
		}
	})

	t.Run("empty preference falls back to corpus tokens", func(t *testing.T) {
		text := QueryText(&core.PreferenceQuery{}, space)
		if text == "" {
			t.Fatal("expected fallback query text")
		}
		if got := len(strings.Fields(text)); got > 5 {
			t.Errorf("fallback tokens = %d, want at most 5", got)
		}
	})

	t.Run("empty preference with empty corpus", func(t *testing.T) {
		if text := QueryText(&core.PreferenceQuery{}, feature.Build(nil)); text != "" {
			t.Errorf("query text = %q, want empty", text)
		}
	})
}
