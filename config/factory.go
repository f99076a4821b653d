package config

import (
	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/feature"
	"github.com/ecoloop/matchkit/filter"
	"github.com/ecoloop/matchkit/pipeline"
	"github.com/ecoloop/matchkit/pkg/conv"
	"github.com/ecoloop/matchkit/rank"
	"github.com/ecoloop/matchkit/recall"
	"github.com/ecoloop/matchkit/rerank"
)

// DefaultFactory 注册全部内置 Node 构建器，供 YAML 定义的 Pipeline 装配使用。
//
// 支持的节点类型与配置键：
//   - recall.content    （无配置，使用注入的特征空间）
//   - recall.peers      top_k
//   - rank.geo          content_weight / distance_weight
//   - rerank.topn       n
//   - filter.liked      （无配置）
//   - filter.dsl        expr
func DefaultFactory(space *feature.Space, warehouse core.Warehouse, matrices core.MatrixStore) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("recall.content", func(_ map[string]interface{}) (pipeline.Node, error) {
		return &recall.Content{Space: space}, nil
	})
	f.Register("recall.peers", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Peers{
			Matrix:    matrices,
			Warehouse: warehouse,
			TopK:      conv.ConfigGetInt(cfg, "top_k", 5),
		}, nil
	})
	f.Register("rank.geo", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rank.GeoBlend{
			ContentWeight:  conv.ConfigGetFloat64(cfg, "content_weight", 0.7),
			DistanceWeight: conv.ConfigGetFloat64(cfg, "distance_weight", 0.3),
		}, nil
	})
	f.Register("rerank.topn", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.TopN{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})
	f.Register("filter.liked", func(_ map[string]interface{}) (pipeline.Node, error) {
		return &filter.Liked{Warehouse: warehouse}, nil
	})
	f.Register("filter.dsl", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &filter.Node{
			Filters: []filter.Filter{
				&filter.DSL{Expr: conv.ConfigGet(cfg, "expr", "")},
			},
		}, nil
	})

	return f
}
