package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/sentiment"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/domain"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/repo"
)

// DashboardUseCase 仪表盘数据
type DashboardUseCase struct {
	repo   repo.CelebrityRepo
	recent repo.RecentReader
	log    *log.Helper
}

// NewDashboardUseCase 创建仪表盘业务逻辑实例
func NewDashboardUseCase(repo repo.CelebrityRepo, recent repo.RecentReader, logger log.Logger) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, recent: recent, log: log.NewHelper(logger)}
}

// Recent 最近写入的记录
func (uc *DashboardUseCase) Recent(ctx context.Context, limit int) []model.RecentRecord {
	return uc.recent.GetRecent(ctx, limit)
}

// Rankings 最新情感排行，附带分类
func (uc *DashboardUseCase) Rankings(ctx context.Context, limit int) ([]*domain.RankingItem, error) {
	rankings, err := uc.repo.LatestRankings(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.RankingItem, 0, len(rankings))
	for _, r := range rankings {
		items = append(items, &domain.RankingItem{
			Ranking: r,
			Label:   string(sentiment.Classify(r.Sentiment)),
		})
	}
	return items, nil
}

// Statistics 总体统计
func (uc *DashboardUseCase) Statistics(ctx context.Context) (*model.Statistics, error) {
	return uc.repo.Statistics(ctx)
}

// Trend 某位名人的情感趋势
func (uc *DashboardUseCase) Trend(ctx context.Context, name string, days int) (*domain.TrendSeries, error) {
	points, err := uc.repo.Trend(ctx, name, days)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []model.TrendPoint{}
	}
	return &domain.TrendSeries{Name: name, Days: days, Points: points}, nil
}
