package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/engine"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/domain"
)

// mockCelebrityRepo 模拟名人数据仓库
type mockCelebrityRepo struct {
	err error
}

func (m *mockCelebrityRepo) LatestRankings(ctx context.Context, limit int) ([]model.Ranking, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []model.Ranking{
		{Name: "A", Sentiment: 0.8},
		{Name: "B", Sentiment: 0},
		{Name: "C", Sentiment: -0.6},
	}, nil
}

func (m *mockCelebrityRepo) Trend(ctx context.Context, name string, days int) ([]model.TrendPoint, error) {
	return nil, m.err
}

func (m *mockCelebrityRepo) Statistics(ctx context.Context) (*model.Statistics, error) {
	return &model.Statistics{TotalRecords: 3}, m.err
}

type mockRecent struct{}

func (mockRecent) GetRecent(ctx context.Context, limit int) []model.RecentRecord {
	return []model.RecentRecord{{ID: 1, Name: "A", CreatedAt: time.Now()}}
}

type mockRunner struct {
	entities []model.Entity
	opts     engine.BatchOptions
}

func (m *mockRunner) ProcessBatch(ctx context.Context, entities []model.Entity, opts engine.BatchOptions) (*model.BatchSummary, error) {
	m.entities = entities
	m.opts = opts
	return model.NewBatchSummary(nil, nil), nil
}

func TestDashboardUseCase_Rankings(t *testing.T) {
	uc := NewDashboardUseCase(&mockCelebrityRepo{}, mockRecent{}, log.DefaultLogger)

	items, err := uc.Rankings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "positive", items[0].Label)
	assert.Equal(t, "neutral", items[1].Label)
	assert.Equal(t, "negative", items[2].Label)
}

func TestDashboardUseCase_RankingsError(t *testing.T) {
	uc := NewDashboardUseCase(&mockCelebrityRepo{err: errors.New("db down")}, mockRecent{}, log.DefaultLogger)

	_, err := uc.Rankings(context.Background(), 10)
	assert.Error(t, err)
}

func TestDashboardUseCase_TrendEmpty(t *testing.T) {
	uc := NewDashboardUseCase(&mockCelebrityRepo{}, mockRecent{}, log.DefaultLogger)

	series, err := uc.Trend(context.Background(), "A", 7)
	require.NoError(t, err)
	assert.Equal(t, "A", series.Name)
	assert.Equal(t, 7, series.Days)
	assert.NotNil(t, series.Points)
	assert.Empty(t, series.Points)
}

func TestDashboardUseCase_Recent(t *testing.T) {
	uc := NewDashboardUseCase(&mockCelebrityRepo{}, mockRecent{}, log.DefaultLogger)
	assert.Len(t, uc.Recent(context.Background(), 5), 1)
}

func TestBatchUseCase_Run(t *testing.T) {
	runner := &mockRunner{}
	uc := NewBatchUseCase(runner, engine.BatchOptions{Limit: 100, MaxWorkers: 4}, log.DefaultLogger)

	off := false
	_, err := uc.Run(context.Background(), &domain.BatchRequest{
		Names:       []string{"A", "B"},
		MaxWorkers:  2,
		UseParallel: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Entities("A", "B"), runner.entities)
	assert.Equal(t, engine.BatchOptions{Limit: 100, MaxWorkers: 2, Sequential: true}, runner.opts)
}

func TestBatchUseCase_RunDefaults(t *testing.T) {
	runner := &mockRunner{}
	uc := NewBatchUseCase(runner, engine.BatchOptions{Limit: 50}, log.DefaultLogger)

	_, err := uc.Run(context.Background(), &domain.BatchRequest{Names: []string{"A"}})
	require.NoError(t, err)
	assert.Equal(t, engine.BatchOptions{Limit: 50}, runner.opts)
}
