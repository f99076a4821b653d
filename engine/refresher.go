package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ecoloop/matchkit/matrix"
)

// Refresher 按固定间隔触发相似度矩阵重建。
// 启动时同步执行一次首轮构建，之后交给 cron 周期触发。
// 触发互斥：上一轮还在跑时本轮直接跳过，不排队不并发。
// 单轮失败只记日志，调度继续——已发布的矩阵保持权威。
type Refresher struct {
	builder *matrix.Builder
	every   time.Duration
	log     *zap.Logger

	cron    *cron.Cron
	running atomic.Bool
}

// NewRefresher 创建刷新器，every 非正时取默认 24h。
func NewRefresher(b *matrix.Builder, every time.Duration, logger *zap.Logger) *Refresher {
	if every <= 0 {
		every = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{builder: b, every: every, log: logger}
}

// Start 同步执行首轮构建后启动周期调度。重复 Start 是错误。
func (r *Refresher) Start(ctx context.Context) error {
	if r.cron != nil {
		return fmt.Errorf("refresher: already started")
	}

	r.trigger(ctx)

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.every), func() {
		r.trigger(context.Background())
	}); err != nil {
		return fmt.Errorf("refresher: schedule: %w", err)
	}
	c.Start()
	r.cron = c
	r.log.Info("matrix refresher started", zap.Duration("every", r.every))
	return nil
}

// Stop 停止调度并等待在途任务结束。
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.cron = nil
}

// Trigger 手动触发一次重建（运维入口），在途时跳过。
func (r *Refresher) Trigger(ctx context.Context) {
	r.trigger(ctx)
}

func (r *Refresher) trigger(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.log.Warn("matrix rebuild still in progress, skipping trigger")
		return
	}
	defer r.running.Store(false)

	if err := r.builder.Run(ctx); err != nil {
		r.log.Error("matrix rebuild failed", zap.Error(err))
	}
}
