package server

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/celebrity_radar/app/display/internal/domain"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/service"
)

func registerDisplayHTTPServer(srv *http.Server, s *service.DisplayService) {
	r := srv.Route("/api")
	r.GET("/recent", listRecentHandler(s))
	r.GET("/rankings", listRankingsHandler(s))
	r.GET("/statistics", getStatisticsHandler(s))
	r.GET("/celebrities/{name}/trend", getTrendHandler(s))
	r.POST("/batches", runBatchHandler(s))
}

func listRecentHandler(s *service.DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		limit, err := intQuery(ctx, "limit")
		if err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.ListRecent(ctx, req.(*service.ListReq))
		})
		out, err := h(ctx, &service.ListReq{Limit: limit})
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func listRankingsHandler(s *service.DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		limit, err := intQuery(ctx, "limit")
		if err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.ListRankings(ctx, req.(*service.ListReq))
		})
		out, err := h(ctx, &service.ListReq{Limit: limit})
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func getStatisticsHandler(s *service.DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.GetStatistics(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func getTrendHandler(s *service.DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		days, err := intQuery(ctx, "days")
		if err != nil {
			return err
		}
		in := &service.GetTrendReq{Name: ctx.Vars().Get("name"), Days: days}
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.GetTrend(ctx, req.(*service.GetTrendReq))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func runBatchHandler(s *service.DisplayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in domain.BatchRequest
		if err := ctx.Bind(&in); err != nil {
			return errors.BadRequest("INVALID_BODY", err.Error())
		}
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.RunBatch(ctx, req.(*domain.BatchRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func intQuery(ctx http.Context, key string) (int, error) {
	v := ctx.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.BadRequest("INVALID_PARAMETER", fmt.Sprintf("%s must be an integer", key))
	}
	return n, nil
}
