// Package engine 组装推荐引擎的两条服务路径：
// 内容排序（查询偏好 → 词法+地理混合打分 → 解释载荷）与
// 协同推荐（相似度矩阵 → 同伴喜欢并集）。
//
// 错误边界：输入校验失败走错误返回；其余任何运行期故障
// （召回失败、矩阵读取失败、panic）都记日志并退化为空结果，
// 推荐是尽力而为的增强功能，不把故障外溢给调用方。
package engine

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/feature"
	"github.com/ecoloop/matchkit/filter"
	"github.com/ecoloop/matchkit/pipeline"
	"github.com/ecoloop/matchkit/rank"
	"github.com/ecoloop/matchkit/recall"
	"github.com/ecoloop/matchkit/rerank"
)

// Options 是引擎的可调参数，零值字段在使用处取默认。
type Options struct {
	// ContentWeight 地理混合中词法分量的权重，默认 0.7
	ContentWeight float64
	// DistanceWeight 地理混合中距离分量的权重，默认 0.3
	DistanceWeight float64
	// PeerCount 协同路径取的同伴数，默认 5
	PeerCount int
	// FilterExpr 可选的 CEL 硬过滤表达式，空串关闭硬过滤
	FilterExpr string
}

// Engine 是推荐引擎。启动时构建一次特征空间，此后对请求只读。
type Engine struct {
	space     *feature.Space
	known     map[string]struct{} // 当前有效产品 id 集合，随特征空间同生命周期
	warehouse core.Warehouse
	matrices  core.MatrixStore
	opts      Options
	log       *zap.Logger
}

// New 创建引擎并构建特征空间。初始语料拉取失败是致命错误——
// 没有语料的引擎没有意义；空语料则合法（服务照常启动，内容路径返回空结果）。
func New(
	ctx context.Context,
	warehouse core.Warehouse,
	matrices core.MatrixStore,
	logger *zap.Logger,
	opts Options,
) (*Engine, error) {
	if warehouse == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: warehouse is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	products, err := warehouse.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: initial corpus fetch: %w", err)
	}
	space := feature.Build(products)
	if space.Empty() {
		logger.Warn("feature space is empty, content ranking will return empty results",
			zap.Int("products", len(products)))
	} else {
		logger.Info("feature space built",
			zap.Int("products", len(space.Products)),
			zap.Int("vocabulary", space.Model.VocabSize()))
	}

	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}

	return &Engine{
		space:     space,
		known:     known,
		warehouse: warehouse,
		matrices:  matrices,
		opts:      opts,
		log:       logger,
	}, nil
}

// Space 返回引擎持有的特征空间（节点工厂装配用）。
func (e *Engine) Space() *feature.Space { return e.space }

// RecommendContent 执行内容排序路径。
// 查询不合法时返回错误；运行期故障退化为空列表。
// 结果按混合分数降序，附匹配词项与距离解释。
func (e *Engine) RecommendContent(ctx context.Context, q *core.PreferenceQuery) (recs []core.Recommendation, err error) {
	if q == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: query is required")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("content ranking panicked",
				zap.Any("panic", r),
				zap.Stack("stack"))
			recs, err = []core.Recommendation{}, nil
		}
	}()

	if e.space.Empty() {
		return []core.Recommendation{}, nil
	}

	rctx := &core.RecommendContext{Query: q}
	nodes := []pipeline.Node{
		&recall.Content{Space: e.space},
	}
	if e.opts.FilterExpr != "" {
		nodes = append(nodes, &filter.Node{
			Filters: []filter.Filter{&filter.DSL{Expr: e.opts.FilterExpr}},
		})
	}
	nodes = append(nodes,
		&rank.GeoBlend{
			ContentWeight:  e.opts.ContentWeight,
			DistanceWeight: e.opts.DistanceWeight,
		},
		&rerank.TopN{N: q.TopN},
	)

	items, err := (&pipeline.Pipeline{Nodes: nodes}).Run(ctx, rctx, nil)
	if err != nil {
		e.log.Error("content ranking failed", zap.Error(err))
		return []core.Recommendation{}, nil
	}

	queryText := recall.QueryText(q, e.space)
	recs = make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		recs = append(recs, e.toRecommendation(it, q, queryText))
	}
	return recs, nil
}

func (e *Engine) toRecommendation(it *core.Item, q *core.PreferenceQuery, queryText string) core.Recommendation {
	distance := "N/A"
	if q.UseGeo() {
		if d, ok := it.MetaFloat("distance_km"); ok && !math.IsInf(d, 0) && !math.IsNaN(d) {
			distance = fmt.Sprintf("%.2fkm", d)
		}
	}

	var categories []string
	if cs, ok := it.Meta["categories"].([]string); ok {
		categories = cs
	}

	return core.Recommendation{
		ProductID:  it.ID,
		Score:      it.Score,
		Name:       it.MetaString("name"),
		Categories: categories,
		Explanation: core.Explanation{
			OverallScore:  it.Score,
			MatchingTerms: e.space.Explain(queryText, it.MetaString("doc"), 5),
			Distance:      distance,
		},
	}
}

// RecommendPeers 执行协同推荐路径：矩阵里 top-K 同伴喜欢的产品并集，
// 剔除用户自己已喜欢的产品。矩阵缺失（冷启动）与运行期故障都退化为空列表。
func (e *Engine) RecommendPeers(ctx context.Context, userID string) (ids []string, err error) {
	if userID == "" {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: user id is required")
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("peer recommendation panicked",
				zap.Any("panic", r),
				zap.Stack("stack"))
			ids, err = []string{}, nil
		}
	}()

	rctx := &core.RecommendContext{UserID: userID}
	pl := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Peers{
			Matrix:    e.matrices,
			Warehouse: e.warehouse,
			TopK:      e.opts.PeerCount,
		},
		&filter.Liked{Warehouse: e.warehouse},
	}}

	items, err := pl.Run(ctx, rctx, nil)
	if err != nil {
		e.log.Error("peer recommendation failed",
			zap.String("user_id", userID),
			zap.Error(err))
		return []string{}, nil
	}

	// 反馈里可能残留已下架产品的 id，按悬空引用剔除
	ids = make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := e.known[it.ID]; !ok {
			continue
		}
		ids = append(ids, it.ID)
	}
	return ids, nil
}
