package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

// BatchOptions 批处理选项
type BatchOptions struct {
	// Limit 最多处理的实体数，<= 0 表示不限制
	Limit int
	// MaxWorkers 并行 worker 数，<= 0 时自动估算
	MaxWorkers int
	// Sequential 强制顺序执行
	Sequential bool
}

// Engine 批处理调度器
type Engine struct {
	proc    Processor
	probe   ResourceProbe
	newPool func(size int) (*workerPool, error)
}

// Option Engine 可选配置
type Option func(*Engine)

// WithProbe 替换系统资源探测
func WithProbe(p ResourceProbe) Option {
	return func(e *Engine) { e.probe = p }
}

// NewEngine 创建引擎实例
func NewEngine(proc Processor, opts ...Option) *Engine {
	e := &Engine{
		proc:    proc,
		probe:   systemProbe{},
		newPool: newWorkerPool,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessBatch 处理一批实体并返回汇总。只有实体名为空时返回 error
func (e *Engine) ProcessBatch(ctx context.Context, entities []model.Entity, opts BatchOptions) (*model.BatchSummary, error) {
	names, err := collectNames(entities, opts.Limit)
	if err != nil {
		return nil, err
	}

	log := logger.Log.WithField("batch", uuid.NewString())
	log.Infof("开始处理 %d 位名人 (parallel=%v, limit=%d)", len(names), !opts.Sequential, opts.Limit)

	var summary *model.BatchSummary
	if opts.Sequential || len(names) <= 1 {
		summary = e.runSequential(ctx, log, names)
	} else {
		summary = e.runParallel(ctx, log, names, opts.MaxWorkers)
	}

	log.Infof("批处理完成: %d/%d 成功 (%.1f%%), %d 失败",
		summary.Successful, summary.TotalAttempted, summary.SuccessRate, summary.Failed)
	return summary, nil
}

// collectNames 按顺序取名字，达到 limit 即停止
func collectNames(entities []model.Entity, limit int) ([]string, error) {
	names := make([]string, 0, len(entities))
	for i, ent := range entities {
		if ent.Name == "" {
			return nil, fmt.Errorf("entity at index %d has empty name", i)
		}
		names = append(names, ent.Name)
		if limit > 0 && len(names) >= limit {
			break
		}
	}
	return names, nil
}

func (e *Engine) runSequential(ctx context.Context, log *logrus.Entry, names []string) *model.BatchSummary {
	var c collector
	for i, name := range names {
		log.Infof("[%d/%d] 处理 %s...", i+1, len(names), name)
		c.add(log, runTask(ctx, e.proc, name))
	}
	return c.summary()
}

func (e *Engine) runParallel(ctx context.Context, log *logrus.Entry, names []string, maxWorkers int) *model.BatchSummary {
	workers := min(estimateWorkers(maxWorkers, e.probe), len(names))

	pool, err := e.newPool(workers)
	if err != nil {
		log.Warnf("worker 池创建失败，改为顺序执行: %v", err)
		return e.runSequential(ctx, log, names)
	}

	log.Infof("使用 %d 个 worker 并行处理", workers)
	var c collector
	done := 0
	pool.run(ctx, e.proc, names, func(o outcome) {
		done++
		c.add(log, o)
		log.Debugf("[%d/%d] %s 完成", done, len(names), o.name)
	})
	return c.summary()
}

// collector 累积成功与失败，只在单个 goroutine 中使用
type collector struct {
	processed []model.ProcessingResult
	failed    []string
}

func (c *collector) add(log *logrus.Entry, o outcome) {
	switch {
	case o.err != nil:
		log.Errorf("✗ 处理 %s 出错: %v", o.name, o.err)
		c.failed = append(c.failed, o.name)
	case o.result == nil:
		c.failed = append(c.failed, o.name)
	default:
		c.processed = append(c.processed, *o.result)
	}
}

func (c *collector) summary() *model.BatchSummary {
	return model.NewBatchSummary(c.processed, c.failed)
}
