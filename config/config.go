// Package config 提供引擎的 YAML 配置加载与装配。
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/engine"
	"github.com/ecoloop/matchkit/store"
)

// Config 是引擎配置（YAML）。
type Config struct {
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Matrix    MatrixConfig    `yaml:"matrix"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Refresh   RefreshConfig   `yaml:"refresh"`
}

// WarehouseConfig 选择数据仓后端。
type WarehouseConfig struct {
	Driver string `yaml:"driver"` // postgres / memory
	DSN    string `yaml:"dsn"`
}

// MatrixConfig 选择矩阵存储后端。
type MatrixConfig struct {
	Store    string `yaml:"store"` // file / redis / memory
	Path     string `yaml:"path"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// RankingConfig 是内容/协同排序参数。
type RankingConfig struct {
	ContentWeight  float64 `yaml:"content_weight"`
	DistanceWeight float64 `yaml:"distance_weight"`
	PeerCount      int     `yaml:"peer_count"`
	FilterExpr     string  `yaml:"filter_expr"`
}

// RefreshConfig 是矩阵刷新调度参数。
type RefreshConfig struct {
	Every Duration `yaml:"every"` // 如 24h
	Alpha float64  `yaml:"alpha"` // 协同侧权重
}

// Duration 是支持 "24h" 字面量的 YAML 时长。
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default 返回默认配置：内存后端、0.7/0.3 混合、5 个同伴、24h 刷新。
func Default() *Config {
	return &Config{
		Warehouse: WarehouseConfig{Driver: "memory"},
		Matrix:    MatrixConfig{Store: "memory"},
		Ranking: RankingConfig{
			ContentWeight:  0.7,
			DistanceWeight: 0.3,
			PeerCount:      5,
		},
		Refresh: RefreshConfig{Every: Duration(24 * time.Hour), Alpha: 0.5},
	}
}

// Load 从 YAML 文件加载配置，缺省字段落到 Default。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// NewWarehouse 按配置装配数据仓。
func (c *Config) NewWarehouse() (core.Warehouse, error) {
	switch c.Warehouse.Driver {
	case "", "memory":
		return store.NewMemoryWarehouse(), nil
	case "postgres":
		return store.NewGormWarehouse(c.Warehouse.DSN)
	default:
		return nil, fmt.Errorf("config: unknown warehouse driver %q", c.Warehouse.Driver)
	}
}

// NewMatrixStore 按配置装配矩阵存储。
func (c *Config) NewMatrixStore(ctx context.Context) (core.MatrixStore, error) {
	switch c.Matrix.Store {
	case "", "memory":
		return store.NewMemoryMatrix(), nil
	case "file":
		if c.Matrix.Path == "" {
			return nil, fmt.Errorf("config: matrix.path is required for file store")
		}
		return store.NewFileMatrix(c.Matrix.Path), nil
	case "redis":
		return store.NewRedisMatrix(ctx, c.Matrix.Addr, c.Matrix.Password, c.Matrix.DB, c.Matrix.Key)
	default:
		return nil, fmt.Errorf("config: unknown matrix store %q", c.Matrix.Store)
	}
}

// EngineOptions 把排序配置映射为引擎参数。
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		ContentWeight:  c.Ranking.ContentWeight,
		DistanceWeight: c.Ranking.DistanceWeight,
		PeerCount:      c.Ranking.PeerCount,
		FilterExpr:     c.Ranking.FilterExpr,
	}
}
