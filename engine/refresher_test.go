package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/matrix"
	"github.com/ecoloop/matchkit/store"
)

func TestRefresherStartBuildsImmediately(t *testing.T) {
	warehouse := testWarehouse()
	matrices := store.NewMemoryMatrix()
	r := NewRefresher(&matrix.Builder{Warehouse: warehouse, Store: matrices}, time.Hour, zap.NewNop())

	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer r.Stop()

	// 首轮构建同步完成：Start 返回后矩阵立即可用
	m, err := matrices.Load(context.Background())
	if err != nil {
		t.Fatalf("Load after Start = %v, want matrix available", err)
	}
	if !m.Has("u1") || !m.Has("u2") {
		t.Errorf("matrix users = %v, want u1 and u2", m.Users)
	}

	if err := r.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
}

type blockingWarehouse struct {
	*store.MemoryWarehouse

	calls   atomic.Int32
	started sync.Once
	fetched chan struct{}
	release chan struct{}
}

func (w *blockingWarehouse) Preferences(ctx context.Context) ([]core.StoredPreference, error) {
	w.calls.Add(1)
	w.started.Do(func() { close(w.fetched) })
	select {
	case <-w.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return nil, nil
}

func TestRefresherSkipsOverlappingTrigger(t *testing.T) {
	bw := &blockingWarehouse{
		MemoryWarehouse: store.NewMemoryWarehouse(),
		fetched:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	r := NewRefresher(&matrix.Builder{Warehouse: bw, Store: store.NewMemoryMatrix()}, time.Hour, zap.NewNop())

	done := make(chan struct{})
	go func() {
		r.Trigger(context.Background())
		close(done)
	}()
	<-bw.fetched

	// 上一轮还在拉取：本次触发立即跳过，不开第二轮
	r.Trigger(context.Background())
	if got := bw.calls.Load(); got != 1 {
		t.Errorf("preference fetches = %d, want 1 (overlapping trigger skipped)", got)
	}

	close(bw.release)
	<-done
}
