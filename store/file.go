package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ecoloop/matchkit/core"
)

// FileMatrix 是基于本地文件的矩阵存储，矩阵整体序列化为一份 CSV。
// 发布走临时文件 + rename 的原子替换：读方要么看到上一份完整矩阵，
// 要么看到新一份，绝不会读到写了一半的文件。
// 读取或解析失败一律归一为 core.ErrMatrixNotFound——
// 对调用方来说"坏文件"和"还没有文件"是同一种冷启动状态。
type FileMatrix struct {
	// Path CSV 文件路径
	Path string
}

func NewFileMatrix(path string) *FileMatrix {
	return &FileMatrix{Path: path}
}

func (s *FileMatrix) Name() string { return "file" }

func (s *FileMatrix) Load(_ context.Context) (*core.SimilarityMatrix, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, core.ErrMatrixNotFound
	}
	m, err := decodeMatrix(data)
	if err != nil {
		return nil, core.ErrMatrixNotFound
	}
	return m, nil
}

func (s *FileMatrix) Save(_ context.Context, m *core.SimilarityMatrix) error {
	data, err := encodeMatrix(m)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
