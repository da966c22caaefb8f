package server

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/engine"
	crLogger "github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/radar"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/conf"
	"github.com/iWorld-y/celebrity_radar/app/display/internal/data"
)

// NewRadar 初始化 celebrity_radar 引擎，复用 Data 中的连接池
func NewRadar(c *conf.Radar, d *data.Data, logger log.Logger) (*radar.Radar, engine.BatchOptions, error) {
	if c == nil || c.Config == "" {
		return nil, engine.BatchOptions{}, fmt.Errorf("radar config path is not set")
	}

	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to load radar config: %v", err)
		return nil, engine.BatchOptions{}, err
	}

	// 初始化日志
	if err := crLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init celebrity_radar logger: %v", err)
		_ = crLogger.InitLogger("info", "") // 降级处理
	}

	r, err := radar.New(context.Background(), cfg, d.Store())
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, engine.BatchOptions{}, err
	}
	return r, radar.Options(cfg.Pipeline), nil
}
