package core

import "github.com/ecoloop/matchkit/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选产品的分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策；Meta 携带产品快照等原始信息。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// MetaString 读取 Meta 中的字符串字段，缺失或类型不符时返回空串。
func (it *Item) MetaString(key string) string {
	if it.Meta == nil {
		return ""
	}
	s, _ := it.Meta[key].(string)
	return s
}

// MetaFloat 读取 Meta 中的 float64 字段。
func (it *Item) MetaFloat(key string) (float64, bool) {
	if it.Meta == nil {
		return 0, false
	}
	f, ok := it.Meta[key].(float64)
	return f, ok
}
