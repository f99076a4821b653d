package filter

import (
	"context"
	"testing"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/store"
)

func TestLikedProcess(t *testing.T) {
	warehouse := store.NewMemoryWarehouse()
	warehouse.SetFeedback([]core.Feedback{
		{UserID: "u1", ProductID: "p1", Liked: true},
		{UserID: "u1", ProductID: "p2", Liked: false}, // 不喜欢不算已喜欢
		{UserID: "u2", ProductID: "p3", Liked: true},
	})

	node := &Liked{Warehouse: warehouse}
	items := []*core.Item{core.NewItem("p1"), core.NewItem("p2"), core.NewItem("p3")}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "p2" || out[1].ID != "p3" {
		ids := make([]string, len(out))
		for i, it := range out {
			ids[i] = it.ID
		}
		t.Errorf("kept = %v, want [p2 p3]", ids)
	}
}

func TestLikedProcessNoFeedback(t *testing.T) {
	node := &Liked{Warehouse: store.NewMemoryWarehouse()}
	items := []*core.Item{core.NewItem("p1")}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("kept = %d items, want 1", len(out))
	}
}

func TestDSLShouldFilter(t *testing.T) {
	it := core.NewItem("p1")
	it.Score = 0.6
	it.Meta["supply_type"] = "offer"
	it.Meta["quantity"] = 150.0

	tests := []struct {
		name     string
		expr     string
		wantDrop bool
		wantErr  bool
	}{
		{name: "empty expression keeps everything", expr: "", wantDrop: false},
		{name: "matching keep expression", expr: `item.meta.supply_type == "offer"`, wantDrop: false},
		{name: "non-matching keep expression", expr: `item.meta.supply_type == "request"`, wantDrop: true},
		{name: "numeric comparison", expr: `item.meta.quantity >= 100.0 && item.score > 0.5`, wantDrop: false},
		{name: "compile error surfaces", expr: `item.meta.supply_type ==`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &DSL{Expr: tt.expr}
			drop, err := f.ShouldFilter(context.Background(), &core.RecommendContext{UserID: "u1"}, it)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if drop != tt.wantDrop {
				t.Errorf("ShouldFilter = %v, want %v", drop, tt.wantDrop)
			}
		})
	}
}

func TestNodeProcess(t *testing.T) {
	offer := core.NewItem("p1")
	offer.Meta["supply_type"] = "offer"
	request := core.NewItem("p2")
	request.Meta["supply_type"] = "request"

	node := &Node{Filters: []Filter{&DSL{Expr: `item.meta.supply_type == "offer"`}}}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, []*core.Item{offer, request})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "p1" {
		t.Errorf("kept %d items, want only p1", len(out))
	}
}

func TestNodeProcessSkipsFailingFilter(t *testing.T) {
	it := core.NewItem("p1")
	node := &Node{Filters: []Filter{&DSL{Expr: `item.meta.supply_type ==`}}} // 编译失败的过滤器被跳过
	out, err := node.Process(context.Background(), &core.RecommendContext{}, []*core.Item{it})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("kept %d items, want 1 (failing filter skipped)", len(out))
	}
}
