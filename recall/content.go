package recall

import (
	"context"
	"strings"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/feature"
	"github.com/ecoloop/matchkit/pipeline"
	"github.com/ecoloop/matchkit/pkg/utils"
)

// Content 是基于内容的召回源：把结构化偏好合成一个查询文档，
// 投影到语料的词法向量空间后，对全部产品做余弦打分。
//
// 候选不做截断——全量带分数进入后续 Rank/ReRank 节点，
// 地理混合与 TopN 截断由独立节点完成。
type Content struct {
	Space *feature.Space
}

func (r *Content) Name() string        { return "recall.content" }
func (r *Content) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 pipeline.Node：忽略输入候选，产出内容召回结果。
func (r *Content) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Content) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Space.Empty() || rctx == nil || rctx.Query == nil {
		return nil, nil
	}

	queryText := QueryText(rctx.Query, r.Space)
	queryVec := r.Space.Model.Transform(queryText)

	out := make([]*core.Item, 0, len(r.Space.Products))
	for i, p := range r.Space.Products {
		it := core.NewItem(p.ID)
		it.Score = feature.Cosine(queryVec, r.Space.Vectors[i])
		it.Meta["name"] = p.Name
		it.Meta["categories"] = p.Categories
		it.Meta["supply_type"] = p.SupplyType
		it.Meta["quantity"] = p.Material.AvailableQuantity
		it.Meta["latitude"] = p.Location.Latitude
		it.Meta["longitude"] = p.Location.Longitude
		it.Meta["doc"] = r.Space.Docs[i]
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// QueryText 把偏好合成查询文档：分类重复 3 次、供给类型、单位、关键词重复 3 次，
// 空格拼接。分类/关键词的三倍权重使其与语料中的物料+描述占比对齐。
// 偏好完全为空时回退为任一语料文档的前五个词，保证链路有定义而不是报错。
func QueryText(q *core.PreferenceQuery, space *feature.Space) string {
	var parts []string
	if len(q.Categories) > 0 {
		categories := strings.Join(q.Categories, " ")
		parts = append(parts, categories, categories, categories)
	}
	if len(q.SupplyTypes) > 0 {
		parts = append(parts, strings.Join(q.SupplyTypes, " "))
	}
	if len(q.Units) > 0 {
		parts = append(parts, strings.Join(q.Units, " "))
	}
	if len(q.Keywords) > 0 {
		keywords := strings.Join(q.Keywords, " ")
		parts = append(parts, keywords, keywords, keywords)
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" && len(space.Docs) > 0 {
		tokens := strings.Fields(space.Docs[0])
		if len(tokens) > 5 {
			tokens = tokens[:5]
		}
		text = strings.Join(tokens, " ")
	}
	return text
}
