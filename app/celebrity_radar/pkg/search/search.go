package search

import "context"

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Counter 返回查询的总结果数估计，用于判断名人热度
type Counter interface {
	TotalResults(ctx context.Context, query string) (int64, error)
}

// Provider 同时具备搜索与计数能力的搜索源
type Provider interface {
	Searcher
	Counter
}

// Request 通用搜索请求
type Request struct {
	Query        string
	Topic        string // "news" or "general"
	MaxResults   int
	DateRestrict string // e.g. "d1"
	Language     string // e.g. "lang_zh-TW"
	StartDate    string // Format: YYYY-MM-DD
	EndDate      string // Format: YYYY-MM-DD
}

// Response 通用搜索响应
type Response struct {
	Results      []Result
	TotalResults int64
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	Score         float64
	PublishedDate string
}
