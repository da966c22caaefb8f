package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM            LLMConfig            `yaml:"llm"`
	Search         SearchConfig         `yaml:"search"`
	Validator      ValidatorConfig      `yaml:"validator"`
	Pipeline       PipelineConfig       `yaml:"pipeline"`
	Log            LogConfig            `yaml:"log"`
	Concurrency    ConcurrencyConfig    `yaml:"concurrency"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	DB             DBConfig             `yaml:"db"`
}

// LLMConfig LLM 相关配置，任意 OpenAI 兼容接口均可 (默认 Gemini)
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`

	// 连接池大小
	MaxOpenConns           int  `yaml:"max_open_conns"`
	MaxIdleConns           int  `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int  `yaml:"conn_max_lifetime_minutes"`
	InitSchema             bool `yaml:"init_schema"`
}

// DSN 返回 lib/pq 连接串，URL 优先
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider        string        `yaml:"provider"`
	Google          GoogleConfig  `yaml:"google"`
	Tavily          TavilyConfig  `yaml:"tavily"`
	SearXNG         SearXNGConfig `yaml:"searxng"`
	QueryTemplate   string        `yaml:"query_template"`
	MentionTemplate string        `yaml:"mention_template"`
	NumResults      int           `yaml:"num_results"`
	FetchContent    bool          `yaml:"fetch_content"`
	MinSnippetLen   int           `yaml:"min_snippet_len"`
	IntervalMS      int           `yaml:"interval_ms"`
}

// GoogleConfig Google Custom Search 配置
type GoogleConfig struct {
	APIKey       string `yaml:"api_key"`
	EngineID     string `yaml:"engine_id"`
	Language     string `yaml:"language"`
	DateRestrict string `yaml:"date_restrict"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// ValidatorConfig 名人入选门槛
type ValidatorConfig struct {
	MentionThreshold int64 `yaml:"mention_threshold"`
}

// PipelineConfig 批处理默认参数
type PipelineConfig struct {
	Limit       int    `yaml:"limit"`
	MaxWorkers  int    `yaml:"max_workers"`
	UseParallel *bool  `yaml:"use_parallel"`
	SeedFile    string `yaml:"seed_file"`
	Schedule    string `yaml:"schedule"`
}

// Parallel 未配置时默认并行
func (p PipelineConfig) Parallel() bool {
	return p.UseParallel == nil || *p.UseParallel
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// CircuitBreakerConfig LLM 熔断配置
type CircuitBreakerConfig struct {
	MaxFailures    uint32 `yaml:"max_failures"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoadConfig 从指定路径加载配置，随后用 .env 和环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.DB.URL, "DATABASE_URL")
	setString(&c.DB.Host, "DB_HOST")
	setString(&c.DB.User, "DB_USER")
	setString(&c.DB.Password, "DB_PASSWORD")
	setString(&c.DB.Name, "DB_NAME")
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.DB.Port = port
		}
	}
	setString(&c.Search.Google.APIKey, "GOOGLE_API_KEY")
	setString(&c.Search.Google.EngineID, "GOOGLE_SEARCH_ENGINE_ID")
	setString(&c.Search.Tavily.APIKey, "TAVILY_API_KEY")
	setString(&c.LLM.APIKey, "GEMINI_API_KEY")
}

func (c *Config) applyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.Search.QueryTemplate == "" {
		c.Search.QueryTemplate = "%s Taiwan 新聞"
	}
	if c.Search.MentionTemplate == "" {
		c.Search.MentionTemplate = "%s Taiwan"
	}
	if c.Search.NumResults <= 0 {
		c.Search.NumResults = 10
	}
	if c.Search.MinSnippetLen <= 0 {
		c.Search.MinSnippetLen = 80
	}
	if c.Search.IntervalMS <= 0 {
		c.Search.IntervalMS = 1000
	}
	if c.Search.Google.Language == "" {
		c.Search.Google.Language = "lang_zh-TW"
	}
	if c.Search.Google.DateRestrict == "" {
		c.Search.Google.DateRestrict = "d1"
	}
	if c.Validator.MentionThreshold <= 0 {
		c.Validator.MentionThreshold = 100
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.CircuitBreaker.MaxFailures == 0 {
		c.CircuitBreaker.MaxFailures = 5
	}
	if c.CircuitBreaker.TimeoutSeconds <= 0 {
		c.CircuitBreaker.TimeoutSeconds = 30
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.DB.MaxOpenConns <= 0 {
		c.DB.MaxOpenConns = 20
	}
	if c.DB.MaxIdleConns <= 0 {
		c.DB.MaxIdleConns = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
