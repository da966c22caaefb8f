package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/engine"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/domain"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/repo"
)

// BatchUseCase 手动触发批处理
type BatchUseCase struct {
	runner   repo.BatchRunner
	defaults engine.BatchOptions
	log      *log.Helper
}

// NewBatchUseCase 创建批处理业务逻辑实例，defaults 为请求未指定时的选项
func NewBatchUseCase(runner repo.BatchRunner, defaults engine.BatchOptions, logger log.Logger) *BatchUseCase {
	return &BatchUseCase{runner: runner, defaults: defaults, log: log.NewHelper(logger)}
}

// Run 同步执行一批名人并返回汇总
func (uc *BatchUseCase) Run(ctx context.Context, req *domain.BatchRequest) (*model.BatchSummary, error) {
	opts := uc.defaults
	if req.Limit > 0 {
		opts.Limit = req.Limit
	}
	if req.MaxWorkers > 0 {
		opts.MaxWorkers = req.MaxWorkers
	}
	if req.UseParallel != nil {
		opts.Sequential = !*req.UseParallel
	}

	uc.log.WithContext(ctx).Infof("batch requested: %d names, limit=%d, workers=%d, sequential=%v",
		len(req.Names), opts.Limit, opts.MaxWorkers, opts.Sequential)
	return uc.runner.ProcessBatch(ctx, model.Entities(req.Names...), opts)
}
