package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/engine"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/conf"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/service"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/usecase"
)

type fakeRepo struct {
	trendName string
	trendDays int
}

func (f *fakeRepo) LatestRankings(ctx context.Context, limit int) ([]model.Ranking, error) {
	return []model.Ranking{{Name: "A", Sentiment: 0.9}, {Name: "B", Sentiment: -0.4}}, nil
}

func (f *fakeRepo) Trend(ctx context.Context, name string, days int) ([]model.TrendPoint, error) {
	f.trendName, f.trendDays = name, days
	return []model.TrendPoint{{CreatedAt: time.Now(), Sentiment: 0.2, Summary: "s"}}, nil
}

func (f *fakeRepo) Statistics(ctx context.Context) (*model.Statistics, error) {
	return &model.Statistics{TotalRecords: 12, UniqueCelebrities: 4, Positive: 2}, nil
}

type fakeRecent struct {
	limit int
}

func (f *fakeRecent) GetRecent(ctx context.Context, limit int) []model.RecentRecord {
	f.limit = limit
	out := make([]model.RecentRecord, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, model.RecentRecord{ID: int64(i + 1), Name: "A"})
	}
	return out
}

type fakeRunner struct {
	opts engine.BatchOptions
}

func (f *fakeRunner) ProcessBatch(ctx context.Context, entities []model.Entity, opts engine.BatchOptions) (*model.BatchSummary, error) {
	f.opts = opts
	processed := make([]model.ProcessingResult, 0, len(entities))
	for _, e := range entities {
		processed = append(processed, model.ProcessingResult{Name: e.Name, Sentiment: 0.1})
	}
	return model.NewBatchSummary(processed, nil), nil
}

type testEnv struct {
	handler http.Handler
	repo    *fakeRepo
	recent  *fakeRecent
	runner  *fakeRunner
}

func newTestEnv() *testEnv {
	env := &testEnv{repo: &fakeRepo{}, recent: &fakeRecent{}, runner: &fakeRunner{}}
	logger := log.DefaultLogger
	svc := service.NewDisplayService(
		usecase.NewDashboardUseCase(env.repo, env.recent, logger),
		usecase.NewBatchUseCase(env.runner, engine.BatchOptions{Limit: 100}, logger),
		logger,
	)
	env.handler = NewHTTPServer(&conf.Server{Http: &conf.HTTP{Timeout: "5s"}}, svc, logger)
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_Recent(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/recent?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reply struct {
		Records []model.RecentRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Len(t, reply.Records, 3)

	// 超出上限时截断
	env.do(t, http.MethodGet, "/api/recent?limit=1000", "")
	assert.Equal(t, 100, env.recent.limit)
}

func TestHTTP_InvalidLimit(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/recent?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_Rankings(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/rankings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reply struct {
		Rankings []struct {
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Len(t, reply.Rankings, 2)
	assert.Equal(t, "positive", reply.Rankings[0].Label)
	assert.Equal(t, "negative", reply.Rankings[1].Label)
}

func TestHTTP_Statistics(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(12), stats.TotalRecords)
	assert.Equal(t, int64(4), stats.UniqueCelebrities)
}

func TestHTTP_Trend(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/celebrities/JayChou/trend?days=14", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JayChou", env.repo.trendName)
	assert.Equal(t, 14, env.repo.trendDays)

	rec = env.do(t, http.MethodGet, "/api/celebrities/JayChou/trend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, env.repo.trendDays)

	rec = env.do(t, http.MethodGet, "/api/celebrities/JayChou/trend?days=45", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_RunBatch(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/batches", `{"names": ["A", "B"], "max_workers": 2, "use_parallel": false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary model.BatchSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalAttempted)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, engine.BatchOptions{Limit: 100, MaxWorkers: 2, Sequential: true}, env.runner.opts)
}

func TestHTTP_RunBatchValidation(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/batches", `{"names": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/batches", `{"names": ["A", " "]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
