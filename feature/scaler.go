package feature

// Scaler 把数值特征按列缩放到 [0,1]（corpus-wide min/max）。
type Scaler struct {
	mins []float64
	maxs []float64
}

// FitTransform 拟合每列的 min/max 并返回缩放结果。
// 列内取值恒定（max == min）时该列全部映射为 0。
func (s *Scaler) FitTransform(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	s.mins = make([]float64, cols)
	s.maxs = make([]float64, cols)
	for j := 0; j < cols; j++ {
		s.mins[j] = rows[0][j]
		s.maxs[j] = rows[0][j]
	}
	for _, row := range rows {
		for j, val := range row {
			if val < s.mins[j] {
				s.mins[j] = val
			}
			if val > s.maxs[j] {
				s.maxs[j] = val
			}
		}
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, cols)
		for j, val := range row {
			if span := s.maxs[j] - s.mins[j]; span > 0 {
				scaled[j] = (val - s.mins[j]) / span
			}
		}
		out[i] = scaled
	}
	return out
}
