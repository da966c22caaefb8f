package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/celebrity_radar/app/display/internal/conf"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/data"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/server"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/service"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/usecase"
)

// initApp 组装 kratos 应用。连接池在 cleanup 中关闭
func initApp(confServer *conf.Server, confData *conf.Data, confRadar *conf.Radar, logger log.Logger) (*kratos.App, func(), error) {
	dataData, cleanup, err := data.NewData(confData, logger)
	if err != nil {
		return nil, nil, err
	}
	r, defaults, err := server.NewRadar(confRadar, dataData, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	celebrityRepo := data.NewCelebrityRepo(dataData, logger)
	dashboardUseCase := usecase.NewDashboardUseCase(celebrityRepo, r.Pipeline, logger)
	batchUseCase := usecase.NewBatchUseCase(r.Engine, defaults, logger)
	displayService := service.NewDisplayService(dashboardUseCase, batchUseCase, logger)
	httpServer := server.NewHTTPServer(confServer, displayService, logger)
	app := newApp(logger, httpServer)
	return app, func() {
		cleanup()
	}, nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
