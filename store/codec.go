// Package store 提供 core 中各数据接口的具体实现：
// GORM/Postgres 数据仓、文件与 Redis 矩阵存储、测试用内存实现。
package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ecoloop/matchkit/core"
)

// encodeMatrix 把相似度矩阵编码为 CSV：
// 首行为空白格 + 用户 id 列头，之后每行以用户 id 开头。
func encodeMatrix(m *core.SimilarityMatrix) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(m.Users)+1)
	header = append(header, "")
	header = append(header, m.Users...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, len(m.Users)+1)
	for i, user := range m.Users {
		record[0] = user
		for j, score := range m.Rows[i] {
			record[j+1] = strconv.FormatFloat(score, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeMatrix 解析 encodeMatrix 产出的 CSV。
// 行列用户 id 必须一致、分数必须是合法浮点数，否则返回错误。
func decodeMatrix(data []byte) (*core.SimilarityMatrix, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("matrix csv: empty document")
	}

	header := records[0]
	users := header[1:]
	m := core.NewSimilarityMatrix(users)

	if len(records)-1 != len(users) {
		return nil, fmt.Errorf("matrix csv: %d header users but %d rows", len(users), len(records)-1)
	}
	for i, record := range records[1:] {
		if len(record) != len(users)+1 {
			return nil, fmt.Errorf("matrix csv: row %d has %d cells, want %d", i+1, len(record), len(users)+1)
		}
		if record[0] != users[i] {
			return nil, fmt.Errorf("matrix csv: row %d id %q does not match header %q", i+1, record[0], users[i])
		}
		for j, cell := range record[1:] {
			score, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("matrix csv: row %d col %d: %w", i+1, j+1, err)
			}
			m.Rows[i][j] = score
		}
	}
	return m, nil
}
