package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/repo"
)

type celebrityRepo struct {
	data *Data
	log  *log.Helper
}

func NewCelebrityRepo(data *Data, logger log.Logger) repo.CelebrityRepo {
	return &celebrityRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *celebrityRepo) LatestRankings(ctx context.Context, limit int) ([]model.Ranking, error) {
	rankings, err := r.data.store.LatestRankings(ctx, limit)
	if err != nil {
		r.log.WithContext(ctx).Errorf("query rankings: %v", err)
		return nil, err
	}
	return rankings, nil
}

func (r *celebrityRepo) Trend(ctx context.Context, name string, days int) ([]model.TrendPoint, error) {
	points, err := r.data.store.Trend(ctx, name, days)
	if err != nil {
		r.log.WithContext(ctx).Errorf("query trend for %s: %v", name, err)
		return nil, err
	}
	return points, nil
}

func (r *celebrityRepo) Statistics(ctx context.Context) (*model.Statistics, error) {
	stats, err := r.data.store.Statistics(ctx)
	if err != nil {
		r.log.WithContext(ctx).Errorf("query statistics: %v", err)
		return nil, err
	}
	return stats, nil
}
