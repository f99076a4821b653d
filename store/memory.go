package store

import (
	"context"
	"sync"

	"github.com/ecoloop/matchkit/core"
)

// MemoryWarehouse 是内存数据仓，测试和示例用。
type MemoryWarehouse struct {
	mu          sync.RWMutex
	products    []core.Product
	feedback    []core.Feedback
	preferences []core.StoredPreference
	users       []core.User
	companies   []core.Company
}

func NewMemoryWarehouse() *MemoryWarehouse {
	return &MemoryWarehouse{}
}

func (w *MemoryWarehouse) Name() string { return "memory" }

func (w *MemoryWarehouse) SetProducts(rows []core.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.products = rows
}

func (w *MemoryWarehouse) SetFeedback(rows []core.Feedback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.feedback = rows
}

func (w *MemoryWarehouse) SetPreferences(rows []core.StoredPreference) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.preferences = rows
}

func (w *MemoryWarehouse) SetUsers(rows []core.User) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.users = rows
}

func (w *MemoryWarehouse) SetCompanies(rows []core.Company) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.companies = rows
}

func (w *MemoryWarehouse) Products(_ context.Context) ([]core.Product, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.Product(nil), w.products...), nil
}

func (w *MemoryWarehouse) Feedback(_ context.Context) ([]core.Feedback, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.Feedback(nil), w.feedback...), nil
}

func (w *MemoryWarehouse) Preferences(_ context.Context) ([]core.StoredPreference, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.StoredPreference(nil), w.preferences...), nil
}

func (w *MemoryWarehouse) Users(_ context.Context) ([]core.User, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.User(nil), w.users...), nil
}

func (w *MemoryWarehouse) Companies(_ context.Context) ([]core.Company, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.Company(nil), w.companies...), nil
}

// MemoryMatrix 是内存矩阵存储。Save 整体替换，天然满足原子发布语义。
type MemoryMatrix struct {
	mu sync.RWMutex
	m  *core.SimilarityMatrix
}

func NewMemoryMatrix() *MemoryMatrix {
	return &MemoryMatrix{}
}

func (s *MemoryMatrix) Name() string { return "memory" }

func (s *MemoryMatrix) Load(_ context.Context) (*core.SimilarityMatrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.m == nil {
		return nil, core.ErrMatrixNotFound
	}
	return s.m, nil
}

func (s *MemoryMatrix) Save(_ context.Context, m *core.SimilarityMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = m
	return nil
}
