package core

import "github.com/ecoloop/matchkit/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/偏好信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// Query 是本次请求的结构化偏好（内容排序路径必填，协同路径可空）
	Query *PreferenceQuery

	// Labels 是请求级标签，可驱动 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（调试/观测用）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
