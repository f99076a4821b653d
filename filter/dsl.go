package filter

import (
	"context"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/pkg/dsl"
)

// DSL 是表达式过滤器：用 CEL 表达式描述"保留哪些候选"。
// 表达式为真时保留，为假时过滤。这是偏好硬过滤的统一入口——
// 分类/关键词等软加权折入查询文本，硬约束显式写成表达式，两种语义不再混用。
//
// 示例：
//   - item.meta.supply_type == "offer"
//   - item.meta.quantity >= 100.0 && item.score > 0.1
type DSL struct {
	// Expr CEL 表达式；空表达式恒保留
	Expr string
}

func (f *DSL) Name() string { return "filter.dsl" }

func (f *DSL) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	keep, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
