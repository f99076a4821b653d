package core

import "sort"

// SimilarityMatrix 是用户×用户的方阵，单元格为 [0,1] 的相似度分数。
// 由矩阵构建任务整体写入（原子替换，不做增量更新），对协同召回只读。
// 按构造对称：M[i][j] == M[j][i]。
type SimilarityMatrix struct {
	Users []string    // 两个轴共用的用户 id 顺序
	Rows  [][]float64 // Rows[i][j] = 用户 i 与用户 j 的相似度

	index map[string]int
}

// NewSimilarityMatrix 创建全零方阵，行列均按给定用户顺序对齐。
func NewSimilarityMatrix(users []string) *SimilarityMatrix {
	rows := make([][]float64, len(users))
	for i := range rows {
		rows[i] = make([]float64, len(users))
	}
	m := &SimilarityMatrix{Users: append([]string(nil), users...), Rows: rows}
	m.buildIndex()
	return m
}

func (m *SimilarityMatrix) buildIndex() {
	m.index = make(map[string]int, len(m.Users))
	for i, u := range m.Users {
		m.index[u] = i
	}
}

// Has 判断用户是否在矩阵的轴上。
func (m *SimilarityMatrix) Has(userID string) bool {
	if m.index == nil {
		m.buildIndex()
	}
	_, ok := m.index[userID]
	return ok
}

// Set 写入一对用户的相似度（同时写对称位置）。
func (m *SimilarityMatrix) Set(a, b string, score float64) {
	if m.index == nil {
		m.buildIndex()
	}
	i, ok := m.index[a]
	if !ok {
		return
	}
	j, ok := m.index[b]
	if !ok {
		return
	}
	m.Rows[i][j] = score
	m.Rows[j][i] = score
}

// Score 读取一对用户的相似度，任一方不在轴上时返回 0。
func (m *SimilarityMatrix) Score(a, b string) float64 {
	if m.index == nil {
		m.buildIndex()
	}
	i, ok := m.index[a]
	if !ok {
		return 0
	}
	j, ok := m.index[b]
	if !ok {
		return 0
	}
	return m.Rows[i][j]
}

// TopPeers 取与目标用户最相似的 k 个用户，降序排列，剔除用户自身。
// 同分时按用户 id 升序，保证结果确定。不做分数阈值过滤：
// 只要进入前 k，负分或零分的相邻用户也会参与后续召回。
func (m *SimilarityMatrix) TopPeers(userID string, k int) []string {
	if m.index == nil {
		m.buildIndex()
	}
	row, ok := m.index[userID]
	if !ok || k <= 0 {
		return nil
	}

	type peer struct {
		id    string
		score float64
	}
	peers := make([]peer, 0, len(m.Users)-1)
	for j, u := range m.Users {
		if u == userID {
			continue
		}
		peers = append(peers, peer{id: u, score: m.Rows[row][j]})
	}
	sort.Slice(peers, func(i, j int) bool {
		if peers[i].score != peers[j].score {
			return peers[i].score > peers[j].score
		}
		return peers[i].id < peers[j].id
	})
	if len(peers) > k {
		peers = peers[:k]
	}
	out := make([]string, len(peers))
	for i, p := range peers {
		out[i] = p.id
	}
	return out
}
