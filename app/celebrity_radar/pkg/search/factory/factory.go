package factory

import (
	"fmt"
	"time"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/google"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/search"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/searxng"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/tavily"
)

// NewProvider 根据配置创建搜索实例
func NewProvider(cfg config.SearchConfig) (search.Provider, error) {
	provider := cfg.Provider
	if provider == "" {
		// 默认回退逻辑：有 Google key 用 google，否则有 tavily key 用 tavily
		switch {
		case cfg.Google.APIKey != "":
			provider = "google"
		case cfg.Tavily.APIKey != "":
			provider = "tavily"
		default:
			return nil, fmt.Errorf("search provider not configured")
		}
	}

	switch provider {
	case "google":
		if cfg.Google.APIKey == "" || cfg.Google.EngineID == "" {
			return nil, fmt.Errorf("google api key or search engine id is missing")
		}
		interval := time.Duration(cfg.IntervalMS) * time.Millisecond
		return google.NewClient(cfg.Google.APIKey, cfg.Google.EngineID, interval), nil

	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Tavily.APIKey), nil

	case "searxng":
		if cfg.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNG.BaseURL, cfg.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
