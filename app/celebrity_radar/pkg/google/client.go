package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/search"
)

const (
	baseURL = "https://www.googleapis.com/customsearch/v1"

	// Custom Search 单次最多返回 10 条
	maxNum = 10
)

// Client Google Custom Search JSON API 客户端
type Client struct {
	apiKey   string
	engineID string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient 创建客户端，interval 为两次请求之间的最小间隔
func NewClient(apiKey, engineID string, interval time.Duration) *Client {
	if interval <= 0 {
		interval = time.Second
	}
	return &Client{
		apiKey:   apiKey,
		engineID: engineID,
		endpoint: baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Ensure Client implements search.Provider
var _ search.Provider = (*Client)(nil)

// SearchResponse Custom Search 响应
type SearchResponse struct {
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Items []Item `json:"items"`
}

// Item 单条结果
type Item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("num", strconv.Itoa(clampNum(req.MaxResults)))
	if req.DateRestrict != "" {
		q.Set("dateRestrict", req.DateRestrict)
	}
	if req.Language != "" {
		q.Set("lr", req.Language)
	}

	resp, err := c.do(ctx, q)
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, search.Result{
			Title:   item.Title,
			URL:     item.Link,
			Content: item.Snippet,
		})
	}

	total, _ := strconv.ParseInt(resp.SearchInformation.TotalResults, 10, 64)
	return &search.Response{Results: results, TotalResults: total}, nil
}

// TotalResults implements search.Counter
func (c *Client) TotalResults(ctx context.Context, query string) (int64, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("num", "1")

	resp, err := c.do(ctx, q)
	if err != nil {
		return 0, err
	}
	if resp.SearchInformation.TotalResults == "" {
		return 0, nil
	}

	total, err := strconv.ParseInt(resp.SearchInformation.TotalResults, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse totalResults %q: %w", resp.SearchInformation.TotalResults, err)
	}
	return total, nil
}

func (c *Client) do(ctx context.Context, q url.Values) (*SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("limiter wait error: %w", err)
	}

	q.Set("key", c.apiKey)
	q.Set("cx", c.engineID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return &searchResp, nil
}

func clampNum(n int) int {
	if n <= 0 {
		return maxNum
	}
	if n > maxNum {
		return maxNum
	}
	return n
}
