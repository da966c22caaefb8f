package repo

import (
	"context"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/engine"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

// CelebrityRepo 名人数据仓库接口
type CelebrityRepo interface {
	// LatestRankings 每位名人最新一条记录，按情感分数倒序
	LatestRankings(ctx context.Context, limit int) ([]model.Ranking, error)
	// Trend 某位名人最近 days 天的情感变化
	Trend(ctx context.Context, name string, days int) ([]model.TrendPoint, error)
	// Statistics 总体统计
	Statistics(ctx context.Context) (*model.Statistics, error)
}

// RecentReader 最近数据预览，失败时返回空列表
type RecentReader interface {
	GetRecent(ctx context.Context, limit int) []model.RecentRecord
}

// BatchRunner 批处理引擎
type BatchRunner interface {
	ProcessBatch(ctx context.Context, entities []model.Entity, opts engine.BatchOptions) (*model.BatchSummary, error)
}
