// Package matchkit 是一个市场供需撮合的混合推荐引擎工具包。
//
// 设计要点：
// - Pipeline-first: 两条推荐路径都由 Node 串联（Recall → Filter → Rank → ReRank）
// - 内容路径: 结构化偏好合成查询文档，词法相似度与地理邻近度加权混合，附匹配词项解释
// - 协同路径: 离线批量构建的用户相似度矩阵（协同+内容两侧加权平均），在线取同伴喜欢并集
// - 错误边界: 输入校验走错误返回，运行期故障退化为空结果——推荐是尽力而为的增强功能
package matchkit

import "github.com/ecoloop/matchkit/pipeline"

// 轻量 facade：便于用户直接 import "matchkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
