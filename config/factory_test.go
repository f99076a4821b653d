package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/feature"
	"github.com/ecoloop/matchkit/pipeline"
	"github.com/ecoloop/matchkit/store"
)

func TestDefaultFactoryBuildsPipelineFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	doc := `
pipeline:
  name: content-ranking
  nodes:
    - type: recall.content
    - type: filter.dsl
      config:
        expr: 'item.meta.supply_type == "offer"'
    - type: rank.geo
      config:
        content_weight: 0.7
        distance_weight: 0.3
    - type: rerank.topn
      config:
        n: 1
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	warehouse := store.NewMemoryWarehouse()
	warehouse.SetProducts([]core.Product{
		{
			ID: "p1", Name: "Steel beams", SupplyType: "offer",
			Categories: []string{"metals"},
			Material:   core.Material{Name: "steel", Description: "recycled steel beams", UnitOfMeasure: "kg"},
		},
		{
			ID: "p2", Name: "Steel plates", SupplyType: "request",
			Categories: []string{"metals"},
			Material:   core.Material{Name: "steel", Description: "surplus steel plates", UnitOfMeasure: "kg"},
		},
		{
			ID: "p3", Name: "Oak pallets", SupplyType: "request",
			Categories: []string{"wood"},
			Material:   core.Material{Name: "oak", Description: "used oak pallets", UnitOfMeasure: "piece"},
		},
	})
	products, err := warehouse.Products(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	space := feature.Build(products)

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	p, err := cfg.BuildPipeline(DefaultFactory(space, warehouse, store.NewMemoryMatrix()))
	if err != nil {
		t.Fatal(err)
	}

	rctx := &core.RecommendContext{Query: &core.PreferenceQuery{
		Categories: []string{"metals"},
		Keywords:   []string{"steel"},
		TopN:       10,
	}}
	items, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	// request 方向被表达式过滤，topn 截为 1
	if len(items) != 1 || items[0].ID != "p1" {
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		t.Errorf("pipeline output = %v, want [p1]", ids)
	}
}

func TestDefaultFactoryRejectsUnknownNode(t *testing.T) {
	f := DefaultFactory(feature.Build(nil), store.NewMemoryWarehouse(), store.NewMemoryMatrix())
	if _, err := f.Build("rank.milvus", nil); err == nil {
		t.Error("expected error for unregistered node type")
	}
}
