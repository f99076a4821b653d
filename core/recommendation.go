package core

// MatchingTerm 是解释载荷中的一个匹配词项：查询与产品文本双侧权重均非零的词，
// Relevance 为两侧权重之积。
type MatchingTerm struct {
	Term      string  `json:"term"`
	Relevance float64 `json:"relevance"`
}

// Explanation 是单条推荐的解释载荷。
type Explanation struct {
	OverallScore  float64        `json:"overall_score"`
	MatchingTerms []MatchingTerm `json:"matching_terms"`
	Distance      string         `json:"distance"` // 如 "12.34km"；未启用地理时为 "N/A"
}

// Recommendation 是内容排序路径的输出条目。
type Recommendation struct {
	ProductID   string      `json:"product_id"`
	Score       float64     `json:"score"`
	Name        string      `json:"name"`
	Categories  []string    `json:"categories"`
	Explanation Explanation `json:"explanation"`
}
