package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	doc := `
warehouse:
  driver: postgres
  dsn: host=localhost user=app dbname=marketplace
matrix:
  store: file
  path: /var/lib/matchkit/similarity.csv
ranking:
  content_weight: 0.6
  distance_weight: 0.4
  peer_count: 3
  filter_expr: 'item.meta.supply_type == "offer"'
refresh:
  every: 12h
  alpha: 0.5
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Warehouse.Driver != "postgres" {
		t.Errorf("driver = %q, want postgres", cfg.Warehouse.Driver)
	}
	if cfg.Matrix.Store != "file" || cfg.Matrix.Path != "/var/lib/matchkit/similarity.csv" {
		t.Errorf("matrix config = %+v", cfg.Matrix)
	}
	if cfg.Ranking.ContentWeight != 0.6 || cfg.Ranking.DistanceWeight != 0.4 {
		t.Errorf("ranking weights = %+v", cfg.Ranking)
	}
	if time.Duration(cfg.Refresh.Every) != 12*time.Hour {
		t.Errorf("refresh every = %v, want 12h", cfg.Refresh.Every)
	}

	opts := cfg.EngineOptions()
	if opts.PeerCount != 3 || opts.FilterExpr == "" {
		t.Errorf("engine options = %+v", opts)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("warehouse:\n  driver: memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	// 未出现的段保持默认
	if cfg.Ranking.ContentWeight != 0.7 || cfg.Ranking.PeerCount != 5 {
		t.Errorf("ranking defaults = %+v", cfg.Ranking)
	}
	if time.Duration(cfg.Refresh.Every) != 24*time.Hour {
		t.Errorf("refresh default = %v, want 24h", cfg.Refresh.Every)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewBackends(t *testing.T) {
	ctx := context.Background()

	t.Run("memory defaults", func(t *testing.T) {
		cfg := Default()
		w, err := cfg.NewWarehouse()
		if err != nil || w.Name() != "memory" {
			t.Errorf("warehouse = %v, %v", w, err)
		}
		m, err := cfg.NewMatrixStore(ctx)
		if err != nil || m.Name() != "memory" {
			t.Errorf("matrix store = %v, %v", m, err)
		}
	})

	t.Run("file store requires path", func(t *testing.T) {
		cfg := Default()
		cfg.Matrix.Store = "file"
		if _, err := cfg.NewMatrixStore(ctx); err == nil {
			t.Error("expected error for missing path")
		}
		cfg.Matrix.Path = filepath.Join(t.TempDir(), "m.csv")
		m, err := cfg.NewMatrixStore(ctx)
		if err != nil || m.Name() != "file" {
			t.Errorf("matrix store = %v, %v", m, err)
		}
	})

	t.Run("unknown backends rejected", func(t *testing.T) {
		cfg := Default()
		cfg.Warehouse.Driver = "oracle"
		if _, err := cfg.NewWarehouse(); err == nil {
			t.Error("expected error for unknown warehouse driver")
		}
		cfg = Default()
		cfg.Matrix.Store = "tape"
		if _, err := cfg.NewMatrixStore(ctx); err == nil {
			t.Error("expected error for unknown matrix store")
		}
	})
}
