package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
)

// ErrCircuitOpen 熔断打开时直接拒绝请求
var ErrCircuitOpen = errors.New("llm circuit breaker is open")

// Generator 单轮文本生成
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Client 带限流和熔断的 LLM 客户端，可被多个 worker 并发使用
type Client struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
}

// NewChatModel 初始化 OpenAI 兼容的 chat model
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return chatModel, nil
}

// NewClient 创建客户端。Limit 设置为 RPM/60，Burst 设置为 QPS
func NewClient(cm model.BaseChatModel, cc config.ConcurrencyConfig, bc config.CircuitBreakerConfig) *Client {
	limit := rate.Limit(float64(cc.RPM) / 60.0)
	burst := cc.QPS
	if cc.RPM <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	maxFailures := bc.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	timeout := time.Duration(bc.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Log.Warnf("熔断器 [%s] 状态变化: %s -> %s", name, from, to)
		},
	})

	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, burst)
	return &Client{
		chatModel: cm,
		limiter:   rate.NewLimiter(limit, burst),
		breaker:   breaker,
	}
}

// Ensure Client implements Generator
var _ Generator = (*Client)(nil)

// Generate 发送 system + user 两条消息，返回去掉 markdown 包裹的文本
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("limiter wait error: %w", err)
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: prompt},
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.chatModel.Generate(ctx, messages)
		if err != nil {
			return nil, err
		}
		return resp.Content, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrCircuitOpen
		}
		return "", err
	}

	return CleanResponse(out.(string)), nil
}

// State 熔断器当前状态
func (c *Client) State() string {
	return c.breaker.State().String()
}

// CleanResponse 清理可能的 markdown 代码块标记
func CleanResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```text")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
