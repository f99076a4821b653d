package filter

import (
	"context"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/pipeline"
)

// Liked 是过滤节点：剔除目标用户已经喜欢过的产品。
// 协同路径的不变量由它保证——推荐列表绝不包含用户已喜欢集合中的产品。
//
// 每次 Process 读一次反馈表（与单次请求同生命周期），
// 不在节点内缓存：反馈随请求之间变化。
type Liked struct {
	Warehouse core.Warehouse
}

func (n *Liked) Name() string        { return "filter.liked" }
func (n *Liked) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Liked) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Warehouse == nil || rctx == nil || rctx.UserID == "" || len(items) == 0 {
		return items, nil
	}

	rows, err := n.Warehouse.Feedback(ctx)
	if err != nil {
		return nil, err
	}
	liked := core.LikedSet(rows, rctx.UserID)
	if len(liked) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if _, ok := liked[it.ID]; ok {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
