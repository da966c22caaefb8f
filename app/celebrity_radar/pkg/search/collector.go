package search

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

const maxFetchedRunes = 1000

// ContentFetcher 抓取 URL 正文
type ContentFetcher func(url string) (string, error)

// Collector 搜索服务边界：所有错误在此记录并转为空结果，不向上抛出
type Collector struct {
	provider        Provider
	queryTemplate   string
	mentionTemplate string
	dateRestrict    string
	language        string
	minSnippetLen   int
	fetch           ContentFetcher
	now             func() time.Time
}

// NewCollector 创建采集器；cfg.FetchContent 为真时对过短摘要抓取正文
func NewCollector(p Provider, cfg config.SearchConfig) *Collector {
	c := &Collector{
		provider:        p,
		queryTemplate:   cfg.QueryTemplate,
		mentionTemplate: cfg.MentionTemplate,
		dateRestrict:    cfg.Google.DateRestrict,
		language:        cfg.Google.Language,
		minSnippetLen:   cfg.MinSnippetLen,
		now:             time.Now,
	}
	if c.queryTemplate == "" {
		c.queryTemplate = "%s"
	}
	if c.mentionTemplate == "" {
		c.mentionTemplate = "%s"
	}
	if cfg.FetchContent {
		c.fetch = FetchContent
	}
	return c
}

// WithFetcher 替换正文抓取函数，nil 表示关闭
func (c *Collector) WithFetcher(f ContentFetcher) *Collector {
	c.fetch = f
	return c
}

// CollectMentions 搜索名人最近一天的新闻提及，失败返回空列表
func (c *Collector) CollectMentions(ctx context.Context, name string, count int) []model.SearchResult {
	req := &Request{
		Query:        fmt.Sprintf(c.queryTemplate, name),
		Topic:        "news",
		MaxResults:   count,
		DateRestrict: c.dateRestrict,
		Language:     c.language,
	}

	resp, err := c.provider.Search(ctx, req)
	if err != nil {
		logger.Log.Errorf("搜索失败 [%s]: %v", name, err)
		return []model.SearchResult{}
	}

	today := c.now().Format(time.DateOnly)
	results := make([]model.SearchResult, 0, len(resp.Results))
	for _, item := range resp.Results {
		snippet := item.Content
		if c.fetch != nil && utf8.RuneCountInString(snippet) < c.minSnippetLen && item.URL != "" {
			fetched, err := c.fetch(item.URL)
			if err != nil {
				logger.Log.Warnf("原文抓取失败，使用摘要 [%s]: %v", item.Title, err)
			} else if utf8.RuneCountInString(fetched) > utf8.RuneCountInString(snippet) {
				snippet = truncateRunes(fetched, maxFetchedRunes)
			}
		}
		results = append(results, model.SearchResult{
			Title:   item.Title,
			Snippet: snippet,
			Link:    item.URL,
			Date:    today,
		})
	}

	logger.Log.Infof("找到 %d 条结果 [%s]", len(results), name)
	return results
}

// TotalMentions 返回提及总数估计，失败返回 0
func (c *Collector) TotalMentions(ctx context.Context, name string) int64 {
	total, err := c.provider.TotalResults(ctx, fmt.Sprintf(c.mentionTemplate, name))
	if err != nil {
		logger.Log.Errorf("获取提及数失败 [%s]: %v", name, err)
		return 0
	}
	return total
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
