package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/ecoloop/matchkit/core"
)

type stubSource struct {
	name  string
	items []*core.Item
	err   error
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Recall(context.Context, *core.RecommendContext) ([]*core.Item, error) {
	return s.items, s.err
}

func TestFanoutProcess(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "content", items: []*core.Item{core.NewItem("p1"), core.NewItem("p2")}},
			&stubSource{name: "peers", items: []*core.Item{core.NewItem("p2"), core.NewItem("p3")}},
		},
		Dedup: true,
	}

	items, err := n.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("candidates = %d, want 3 after dedup", len(items))
	}

	byID := make(map[string]*core.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	// 重复候选的 labels 被合并
	if lbl := byID["p2"].Labels["recall_source"]; lbl.Value != "content|peers" && lbl.Value != "peers|content" {
		t.Errorf("p2 recall_source = %q, want merged sources", lbl.Value)
	}
}

func TestFanoutToleratesFailingSource(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "bad", err: errors.New("source down")},
			&stubSource{name: "good", items: []*core.Item{core.NewItem("p1")}},
		},
	}

	items, err := n.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "p1" {
		t.Errorf("candidates = %v, want the healthy source's item", items)
	}
}

func TestFanoutNoSources(t *testing.T) {
	items, err := (&Fanout{}).Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("candidates = %d, want 0", len(items))
	}
}
