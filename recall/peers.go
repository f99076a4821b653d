package recall

import (
	"context"
	"sort"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/pipeline"
	"github.com/ecoloop/matchkit/pkg/utils"
)

// Peers 是协同召回源：从持久化的用户相似度矩阵取最相似的 TopK 个相邻用户，
// 召回这些用户喜欢过的产品。
//
// 冷启动约定：矩阵尚未构建、或目标用户不在矩阵轴上时返回空候选，不报错。
// 不剔除目标用户自己喜欢过的产品——那是 filter.Liked 节点的职责。
// 候选不带分数（presence-based）：相邻用户的相似度不向下传播到产品。
type Peers struct {
	Matrix    core.MatrixStore
	Warehouse core.Warehouse

	// TopK 参与召回的相邻用户数，默认 5。不设相似度阈值：
	// 只要进入 TopK，零分或负分的相邻用户也参与。
	TopK int
}

func (r *Peers) Name() string        { return "recall.peers" }
func (r *Peers) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 pipeline.Node：忽略输入候选，产出协同召回结果。
func (r *Peers) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Peers) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Matrix == nil || r.Warehouse == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	m, err := r.Matrix.Load(ctx)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !m.Has(rctx.UserID) {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 5
	}
	peers := m.TopPeers(rctx.UserID, topK)
	if len(peers) == 0 {
		return nil, nil
	}

	rows, err := r.Warehouse.Feedback(ctx)
	if err != nil {
		return nil, err
	}
	likedBy := core.LikedByUser(rows)

	// 相邻用户喜欢集合的并集；记录每个产品来自哪些相邻用户，供解释使用
	byProduct := make(map[string]*core.Item)
	for _, peer := range peers {
		for productID := range likedBy[peer] {
			it, ok := byProduct[productID]
			if !ok {
				it = core.NewItem(productID)
				it.PutLabel("recall_source", utils.Label{Value: "peers", Source: "recall"})
				byProduct[productID] = it
			}
			it.PutLabel("peer", utils.Label{Value: peer, Source: "recall"})
		}
	}

	ids := make([]string, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, byProduct[id])
	}
	return out, nil
}
