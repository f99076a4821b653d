package feature

import (
	"math"
	"sort"
	"strings"
)

// Vector 是词法向量空间中的一个稀疏向量：词表下标 -> 权重。
type Vector map[int]float64

// Vectorizer 是词法向量空间模型（document-term weighting）。
// Fit 之后词表与维度固定：同一实例变换出的查询向量与语料向量维度必然一致。
//
// 配置为导出字段，零值采用默认：不启用停用词、MinDF 1、仅 unigram、词表不设限。
// 语料侧启用英文停用词、MaxDF 0.95、MinDF 2、1-2 gram、词表上限 5000。
type Vectorizer struct {
	// StopWords 停用词表；nil 表示不启用
	StopWords []string

	// MaxDF 文档频率上限（占比），高于该占比的词被忽略；0 表示 1.0（不过滤）
	MaxDF float64

	// MinDF 文档频率下限（文档数），低于该数的词被忽略；0 表示 1
	MinDF int

	// NGramMax n-gram 上限；0/1 表示仅 unigram，2 表示 unigram+bigram
	NGramMax int

	// MaxFeatures 词表容量上限，超出时按语料词频保留最高的若干词；0 表示不设限
	MaxFeatures int

	vocab  map[string]int
	terms  []string
	idf    []float64
	stop   map[string]struct{}
	fitted bool
}

// NewCorpusVectorizer 返回语料侧配置的模型（产品文本向量化）。
func NewCorpusVectorizer() *Vectorizer {
	return &Vectorizer{
		StopWords:   EnglishStopWords,
		MaxDF:       0.95,
		MinDF:       2,
		NGramMax:    2,
		MaxFeatures: 5000,
	}
}

// Fit 在语料上拟合词表与逆文档频率。
// 词表可能为空（语料过小或全部词被频率阈值过滤）；此时 Transform 返回零向量，
// 打分退化为 0 而不是报错——排序是尽力而为的。
func (v *Vectorizer) Fit(docs []string) {
	maxDF := v.MaxDF
	if maxDF <= 0 {
		maxDF = 1.0
	}
	minDF := v.MinDF
	if minDF <= 0 {
		minDF = 1
	}

	v.stop = make(map[string]struct{}, len(v.StopWords))
	for _, w := range v.StopWords {
		v.stop[w] = struct{}{}
	}

	n := len(docs)
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, doc := range docs {
		grams := v.grams(doc)
		seen := make(map[string]struct{}, len(grams))
		for _, g := range grams {
			tf[g]++
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				df[g]++
			}
		}
	}

	kept := make([]string, 0, len(df))
	for term, count := range df {
		if count < minDF {
			continue
		}
		if float64(count)/float64(n) > maxDF {
			continue
		}
		kept = append(kept, term)
	}

	// 词表超限时按语料词频截断，同频词按字典序保证确定性
	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if tf[kept[i]] != tf[kept[j]] {
				return tf[kept[i]] > tf[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.MaxFeatures]
	}
	sort.Strings(kept)

	v.terms = kept
	v.vocab = make(map[string]int, len(kept))
	v.idf = make([]float64, len(kept))
	for i, term := range kept {
		v.vocab[term] = i
		// 平滑 idf：ln((1+n)/(1+df)) + 1
		v.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}
	v.fitted = true
}

// Transform 把一段文本投影到已拟合的向量空间，L2 归一化。
// 未拟合或词表为空时返回空向量。
func (v *Vectorizer) Transform(doc string) Vector {
	out := make(Vector)
	if !v.fitted || len(v.vocab) == 0 {
		return out
	}
	for _, g := range v.grams(doc) {
		if idx, ok := v.vocab[g]; ok {
			out[idx] += v.idf[idx]
		}
	}
	var norm float64
	for _, w := range out {
		norm += w * w
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for idx := range out {
			out[idx] *= inv
		}
	}
	return out
}

// TransformAll 批量变换。
func (v *Vectorizer) TransformAll(docs []string) []Vector {
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// Term 返回词表下标对应的词。
func (v *Vectorizer) Term(idx int) string {
	if idx < 0 || idx >= len(v.terms) {
		return ""
	}
	return v.terms[idx]
}

// VocabSize 返回词表大小。
func (v *Vectorizer) VocabSize() int { return len(v.terms) }

// grams 切词（去停用词）后生成 1..NGramMax 的 n-gram。
func (v *Vectorizer) grams(doc string) []string {
	tokens := Tokenize(doc)
	if len(v.stop) > 0 {
		filtered := tokens[:0]
		for _, t := range tokens {
			if _, ok := v.stop[t]; !ok {
				filtered = append(filtered, t)
			}
		}
		tokens = filtered
	}

	nmax := v.NGramMax
	if nmax <= 0 {
		nmax = 1
	}
	if nmax == 1 {
		return tokens
	}
	out := make([]string, 0, len(tokens)*nmax)
	for n := 1; n <= nmax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Cosine 计算两个稀疏向量的余弦相似度。零向量返回 0。
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// 遍历较小的一侧
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot, normA, normB float64
	for idx, wa := range a {
		normA += wa * wa
		if wb, ok := b[idx]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
