package domain

import (
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

// RankingItem 排行榜条目，附带情感分类
type RankingItem struct {
	model.Ranking
	Label string `json:"label"`
}

// TrendSeries 某位名人的情感趋势
type TrendSeries struct {
	Name   string             `json:"name"`
	Days   int                `json:"days"`
	Points []model.TrendPoint `json:"points"`
}

// BatchRequest 手动触发的批处理请求
type BatchRequest struct {
	Names       []string `json:"names"`
	Limit       int      `json:"limit"`
	MaxWorkers  int      `json:"max_workers"`
	UseParallel *bool    `json:"use_parallel"`
}
