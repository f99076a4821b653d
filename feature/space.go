package feature

import (
	"sort"
	"strings"

	"github.com/ecoloop/matchkit/core"
)

// Space 是进程生命周期的内容特征空间：语料文本、拟合后的词法模型、
// 语料向量与缩放后的数值特征。启动时构建一次，此后只读，
// 可被所有请求协程无锁共享；刷新语料只能重建 Space（重启特征构建）。
type Space struct {
	Products []core.Product
	Docs     []string
	Model    *Vectorizer
	Vectors  []Vector
	Numeric  [][]float64 // 每行 [quantity, latitude, longitude]，缩放到 [0,1]
}

// Build 在产品语料上构建特征空间。
// 空语料时 Model 保持未设置（nil），所有内容查询返回空结果而不是失败。
func Build(products []core.Product) *Space {
	s := &Space{Products: products}
	if len(products) == 0 {
		return s
	}

	s.Docs = make([]string, len(products))
	numeric := make([][]float64, len(products))
	for i, p := range products {
		s.Docs[i] = Doc(p)
		numeric[i] = []float64{
			p.Material.AvailableQuantity,
			p.Location.Latitude,
			p.Location.Longitude,
		}
	}

	s.Model = NewCorpusVectorizer()
	s.Model.Fit(s.Docs)
	s.Vectors = s.Model.TransformAll(s.Docs)

	var scaler Scaler
	s.Numeric = scaler.FitTransform(numeric)
	return s
}

// Empty 判断特征空间是否不可用（空语料）。
func (s *Space) Empty() bool {
	return s == nil || s.Model == nil || len(s.Products) == 0
}

// Doc 构造一个产品的语料文档。字段归一化后按稳定顺序空格拼接，
// 名称与分类各出现两次，相对供给类型与计量单位隐式加权。
// 缺失字段以空串参与拼接，保证顺序不因缺失漂移。
func Doc(p core.Product) string {
	name := Normalize(p.Name)
	categories := Normalize(strings.Join(p.Categories, " "))
	parts := []string{
		name,
		name,
		Normalize(p.Material.Name),
		Normalize(p.Material.Description),
		categories,
		categories,
		Normalize(p.SupplyType),
		Normalize(p.Material.UnitOfMeasure),
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Explain 计算查询文本与产品文本的匹配词项：双侧权重均非零的词，
// 按权重乘积降序，最多 max 个。同分按词字典序，保证结果确定。
func (s *Space) Explain(queryText, docText string, max int) []core.MatchingTerm {
	if s.Empty() {
		return nil
	}
	qv := s.Model.Transform(queryText)
	dv := s.Model.Transform(docText)

	terms := make([]core.MatchingTerm, 0, len(qv))
	for idx, qw := range qv {
		if dw, ok := dv[idx]; ok && qw > 0 && dw > 0 {
			terms = append(terms, core.MatchingTerm{
				Term:      s.Model.Term(idx),
				Relevance: qw * dw,
			})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Relevance != terms[j].Relevance {
			return terms[i].Relevance > terms[j].Relevance
		}
		return terms[i].Term < terms[j].Term
	})
	if max > 0 && len(terms) > max {
		terms = terms[:max]
	}
	return terms
}
