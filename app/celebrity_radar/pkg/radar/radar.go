package radar

import (
	"context"
	"fmt"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/cleaner"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/engine"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/llm"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/search"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/search/factory"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/sentiment"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/validator"
)

// Radar 组装好的各个服务，CLI 与展示端共用
type Radar struct {
	Engine    *engine.Engine
	Pipeline  *engine.Pipeline
	Validator *validator.Validator
	Collector *search.Collector
	Cleaner   *cleaner.Cleaner
	Analyzer  *sentiment.Analyzer
	LLM       *llm.Client
}

// New 按配置初始化搜索、LLM 与处理流水线。store 由调用方持有并负责关闭
func New(ctx context.Context, cfg *config.Config, store engine.RecordStore) (*Radar, error) {
	provider, err := factory.NewProvider(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	collector := search.NewCollector(provider, cfg.Search)

	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	client := llm.NewClient(chatModel, cfg.Concurrency, cfg.CircuitBreaker)

	cl := cleaner.NewCleaner(client)
	analyzer := sentiment.NewAnalyzer(client)
	pipeline := engine.NewPipeline(collector, cl, analyzer, store, cfg.Search.NumResults)

	return &Radar{
		Engine:    engine.NewEngine(pipeline),
		Pipeline:  pipeline,
		Validator: validator.NewValidator(collector, cfg.Validator.MentionThreshold),
		Collector: collector,
		Cleaner:   cl,
		Analyzer:  analyzer,
		LLM:       client,
	}, nil
}

// Options 将配置中的批处理默认值转为 BatchOptions
func Options(p config.PipelineConfig) engine.BatchOptions {
	return engine.BatchOptions{
		Limit:      p.Limit,
		MaxWorkers: p.MaxWorkers,
		Sequential: !p.Parallel(),
	}
}
