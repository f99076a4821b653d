// Package matrix 实现用户相似度矩阵的离线批量构建。
//
// 构建是全量重建 + 整体发布：任何一步失败都不发布（fail closed），
// 上一份矩阵保持权威。与请求服务完全解耦——协同召回只通过
// core.MatrixStore 读取发布结果，两者之间只保证最终一致。
package matrix

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecoloop/matchkit/core"
	"github.com/ecoloop/matchkit/feature"
)

// 构建任务的阶段（Idle → Fetching → Building → Publishing → Idle）。
const (
	StateIdle       = "idle"
	StateFetching   = "fetching"
	StateBuilding   = "building"
	StatePublishing = "publishing"
)

// Builder 是相似度矩阵构建任务。
// 协同侧：反馈透视为 User×Product 的 0/1 喜欢表，行间余弦相似度。
// 内容侧：每用户的偏好字段拼接为带字段名前缀的文本记录，
// 新拟合一个词法模型后计算记录间余弦相似度。
// 两侧按 Alpha 加权平均后整体发布。
type Builder struct {
	Warehouse core.Warehouse
	Store     core.MatrixStore

	// Alpha 协同侧权重，内容侧为 1-Alpha；0 时取默认 0.5
	Alpha float64

	Logger *zap.Logger

	state atomic.Value
}

// State 返回当前阶段（观测用）。
func (b *Builder) State() string {
	if s, ok := b.state.Load().(string); ok {
		return s
	}
	return StateIdle
}

func (b *Builder) setState(s string) { b.state.Store(s) }

// Run 执行一次全量重建。返回错误时不产生任何副作用：
// 之前发布的矩阵保持不变。
func (b *Builder) Run(ctx context.Context) error {
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	alpha := b.Alpha
	if alpha <= 0 {
		alpha = 0.5
	}

	start := time.Now()
	b.setState(StateFetching)
	defer b.setState(StateIdle)

	var (
		prefs     []core.StoredPreference
		users     []core.User
		feedback  []core.Feedback
		companies []core.Company
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		prefs, err = b.Warehouse.Preferences(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		users, err = b.Warehouse.Users(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		feedback, err = b.Warehouse.Feedback(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		companies, err = b.Warehouse.Companies(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("matrix fetch: %w", err)
	}

	b.setState(StateBuilding)
	collab := collaborativeSide(feedback)
	content := contentSide(prefs, users, companies)
	combined := blend(collab, content, alpha)

	b.setState(StatePublishing)
	if err := b.Store.Save(ctx, combined); err != nil {
		return fmt.Errorf("matrix publish: %w", err)
	}

	log.Info("similarity matrix rebuilt",
		zap.Int("users", len(combined.Users)),
		zap.Int("collaborative_users", len(collab.Users)),
		zap.Int("content_users", len(content.Users)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// collaborativeSide 把反馈透视为 User×Product 的二元喜欢表后计算行间余弦。
// 重复 (user, product) 行按逻辑或归并；缺失组合为 0；
// 只有不喜欢记录的用户留下全零行（与任何人的相似度为 0）。
func collaborativeSide(rows []core.Feedback) *core.SimilarityMatrix {
	userSet := make(map[string]struct{})
	productSet := make(map[string]struct{})
	for _, r := range rows {
		userSet[r.UserID] = struct{}{}
		productSet[r.ProductID] = struct{}{}
	}
	userIDs := sortedKeys(userSet)
	productIDs := sortedKeys(productSet)

	productIdx := make(map[string]int, len(productIDs))
	for i, p := range productIDs {
		productIdx[p] = i
	}
	userIdx := make(map[string]int, len(userIDs))
	for i, u := range userIDs {
		userIdx[u] = i
	}

	liked := make([][]float64, len(userIDs))
	for i := range liked {
		liked[i] = make([]float64, len(productIDs))
	}
	for _, r := range rows {
		if r.Liked {
			liked[userIdx[r.UserID]][productIdx[r.ProductID]] = 1
		}
	}

	return pairwiseCosine(userIDs, liked)
}

// contentSide 为每个有偏好行的用户构造文本记录并计算记录间余弦。
// 同一用户多行偏好时首行生效。联结策略：偏好→用户→公司均为 left join，
// 不按反馈裁剪用户——无反馈的用户也保留在内容侧（见 DESIGN.md 联结策略决定）。
func contentSide(prefs []core.StoredPreference, users []core.User, companies []core.Company) *core.SimilarityMatrix {
	companyByUser := make(map[string]core.Company)
	if len(users) > 0 && len(companies) > 0 {
		companyByID := make(map[string]core.Company, len(companies))
		for _, c := range companies {
			companyByID[c.ID] = c
		}
		for _, u := range users {
			if c, ok := companyByID[u.CompanyID]; ok {
				companyByUser[u.ID] = c
			}
		}
	}

	seen := make(map[string]struct{}, len(prefs))
	userIDs := make([]string, 0, len(prefs))
	recordByUser := make(map[string]string, len(prefs))
	for _, p := range prefs {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		userIDs = append(userIDs, p.UserID)
		recordByUser[p.UserID] = preferenceRecord(p, companyByUser[p.UserID].NACECode)
	}
	sort.Strings(userIDs)

	docs := make([]string, len(userIDs))
	for i, u := range userIDs {
		docs[i] = recordByUser[u]
	}

	// 内容侧用默认配置新拟合一个模型：不启用停用词、MinDF 1、unigram、词表不设限
	var model feature.Vectorizer
	model.Fit(docs)
	vecs := model.TransformAll(docs)

	m := core.NewSimilarityMatrix(userIDs)
	for i := range userIDs {
		m.Rows[i][i] = 1
		for j := i + 1; j < len(userIDs); j++ {
			m.Set(userIDs[i], userIDs[j], feature.Cosine(vecs[i], vecs[j]))
		}
	}
	return m
}

// preferenceRecord 把一行偏好拼为文本记录，每个字段带字段名前缀，
// 避免不同字段里的相同取值在词法空间中混淆。
func preferenceRecord(p core.StoredPreference, naceCode string) string {
	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	}
	parts := []string{
		"PreferredCategories1: " + p.Categories1,
		"PreferredCategories2: " + p.Categories2,
		"PreferredCategories3: " + p.Categories3,
		"PreferredUnitOfMeasures: " + p.Units,
		"PreferredKeywords: " + p.Keywords,
		"PreferredSupplyType: " + p.SupplyType,
		"PreferredValidFrom: " + formatTime(p.ValidFrom),
		"PreferredValidTo: " + formatTime(p.ValidTo),
		"NACECode: " + naceCode,
	}
	return strings.Join(parts, ", ")
}

// blend 把两侧矩阵在用户 id 并集上按权重平均对齐：
// 用户缺席的一侧贡献 0。对角线显式置 1——自相似度按定义为 1，
// 不随用户缺席某一侧而折半。
func blend(collab, content *core.SimilarityMatrix, alpha float64) *core.SimilarityMatrix {
	userSet := make(map[string]struct{}, len(collab.Users)+len(content.Users))
	for _, u := range collab.Users {
		userSet[u] = struct{}{}
	}
	for _, u := range content.Users {
		userSet[u] = struct{}{}
	}
	userIDs := sortedKeys(userSet)

	m := core.NewSimilarityMatrix(userIDs)
	for i, a := range userIDs {
		m.Rows[i][i] = 1
		for j := i + 1; j < len(userIDs); j++ {
			b := userIDs[j]
			score := alpha*collab.Score(a, b) + (1-alpha)*content.Score(a, b)
			m.Set(a, b, score)
		}
	}
	return m
}

// pairwiseCosine 计算稠密行向量之间的两两余弦相似度。
func pairwiseCosine(ids []string, rows [][]float64) *core.SimilarityMatrix {
	normalized := make([][]float64, len(rows))
	for i, row := range rows {
		normalized[i] = normalizeRow(row)
	}
	m := core.NewSimilarityMatrix(ids)
	for i := range ids {
		if normalized[i] != nil {
			m.Rows[i][i] = 1
		}
		for j := i + 1; j < len(ids); j++ {
			if normalized[i] == nil || normalized[j] == nil {
				continue
			}
			m.Set(ids[i], ids[j], dot(normalized[i], normalized[j]))
		}
	}
	return m
}

// normalizeRow 返回 L2 归一化后的副本；全零行返回 nil。
func normalizeRow(v []float64) []float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	if s == 0 {
		return nil
	}
	inv := 1 / math.Sqrt(s)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
