package service

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/domain"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/usecase"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	defaultDays  = 7
	maxDays      = 30
)

type DisplayService struct {
	ucDashboard *usecase.DashboardUseCase
	ucBatch     *usecase.BatchUseCase
	log         *log.Helper
}

func NewDisplayService(ucDashboard *usecase.DashboardUseCase, ucBatch *usecase.BatchUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucDashboard: ucDashboard,
		ucBatch:     ucBatch,
		log:         log.NewHelper(logger),
	}
}

type ListReq struct {
	Limit int
}

type ListRecentReply struct {
	Records []model.RecentRecord `json:"records"`
}

type ListRankingsReply struct {
	Rankings []*domain.RankingItem `json:"rankings"`
}

type GetTrendReq struct {
	Name string
	Days int
}

func (s *DisplayService) ListRecent(ctx context.Context, req *ListReq) (*ListRecentReply, error) {
	return &ListRecentReply{Records: s.ucDashboard.Recent(ctx, normalizeLimit(req.Limit))}, nil
}

func (s *DisplayService) ListRankings(ctx context.Context, req *ListReq) (*ListRankingsReply, error) {
	items, err := s.ucDashboard.Rankings(ctx, normalizeLimit(req.Limit))
	if err != nil {
		return nil, err
	}
	return &ListRankingsReply{Rankings: items}, nil
}

func (s *DisplayService) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	return s.ucDashboard.Statistics(ctx)
}

func (s *DisplayService) GetTrend(ctx context.Context, req *GetTrendReq) (*domain.TrendSeries, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.BadRequest("INVALID_PARAMETER", "name is required")
	}
	days := req.Days
	if days == 0 {
		days = defaultDays
	}
	if days < 1 || days > maxDays {
		return nil, errors.BadRequest("INVALID_PARAMETER", "days must be between 1 and 30")
	}
	return s.ucDashboard.Trend(ctx, name, days)
}

func (s *DisplayService) RunBatch(ctx context.Context, req *domain.BatchRequest) (*model.BatchSummary, error) {
	if len(req.Names) == 0 {
		return nil, errors.BadRequest("INVALID_PARAMETER", "names is required")
	}
	for _, n := range req.Names {
		if strings.TrimSpace(n) == "" {
			return nil, errors.BadRequest("INVALID_PARAMETER", "names must not contain empty values")
		}
	}
	if req.Limit < 0 || req.MaxWorkers < 0 {
		return nil, errors.BadRequest("INVALID_PARAMETER", "limit and max_workers must not be negative")
	}
	return s.ucBatch.Run(ctx, req)
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
