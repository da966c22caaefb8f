package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Entity 追踪对象 (名人)，以名字为唯一标识
type Entity struct {
	Name string `json:"name"`
}

// UnmarshalJSON 同时接受 "名字" 与 {"name": "名字"} 两种写法
func (e *Entity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		e.Name = name
		return nil
	}

	var obj struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Name == nil {
		return errors.New("entity: missing name field")
	}
	e.Name = *obj.Name
	return nil
}

// Entities 由名字列表构造实体列表
func Entities(names ...string) []Entity {
	out := make([]Entity, len(names))
	for i, n := range names {
		out[i] = Entity{Name: n}
	}
	return out
}

// SearchResult 单条新闻提及
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Date    string `json:"date"`
}

// MentionRecord 待写入数据库的一条记录
type MentionRecord struct {
	Name             string
	CleanedParagraph string
	Source           string // 为空时写入 NULL
	Sentiment        float64
}

// ProcessingResult 单个实体处理成功后的结果，返回后不再修改
type ProcessingResult struct {
	RecordID     int64   `json:"record_id"`
	Name         string  `json:"name"`
	Sentiment    float64 `json:"sentiment"`
	MentionCount int     `json:"mention_count"`
	CleanedText  string  `json:"cleaned_text"`
	Source       string  `json:"source,omitempty"`
}

// BatchSummary 一次批处理的汇总
type BatchSummary struct {
	TotalAttempted int                `json:"total_attempted"`
	Successful     int                `json:"successful"`
	Failed         int                `json:"failed"`
	SuccessRate    float64            `json:"success_rate"`
	Processed      []ProcessingResult `json:"processed"`
	FailedNames    []string           `json:"failed_names"`
}

// NewBatchSummary 根据成功与失败列表构建汇总
func NewBatchSummary(processed []ProcessingResult, failed []string) *BatchSummary {
	if processed == nil {
		processed = []ProcessingResult{}
	}
	if failed == nil {
		failed = []string{}
	}

	total := len(processed) + len(failed)
	var rate float64
	if total > 0 {
		rate = float64(len(processed)) / float64(total) * 100
	}

	return &BatchSummary{
		TotalAttempted: total,
		Successful:     len(processed),
		Failed:         len(failed),
		SuccessRate:    rate,
		Processed:      processed,
		FailedNames:    failed,
	}
}

// ValidationResult 通过门槛的实体及其提及数
type ValidationResult struct {
	Name         string `json:"name"`
	MentionCount int64  `json:"mention_count"`
}

// StoredMention 数据库中的一条完整记录
type StoredMention struct {
	ID               int64
	Name             string
	Sentiment        float64
	CreatedAt        time.Time
	CleanedParagraph string
	Source           string
}

// RecentRecord 最近数据的预览
type RecentRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Sentiment   float64   `json:"sentiment"`
	CreatedAt   time.Time `json:"created_at"`
	TextPreview string    `json:"text_preview"`
}

// Ranking 每位名人最新一条记录
type Ranking struct {
	Name      string    `json:"name"`
	Sentiment float64   `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source,omitempty"`
}

// TrendPoint 情感趋势上的一个点
type TrendPoint struct {
	CreatedAt time.Time `json:"created_at"`
	Sentiment float64   `json:"sentiment"`
	Summary   string    `json:"summary"`
}

// Statistics 总体统计
type Statistics struct {
	TotalRecords      int64   `json:"total_records"`
	UniqueCelebrities int64   `json:"unique_celebrities"`
	AvgSentiment      float64 `json:"avg_sentiment"`
	Positive          int64   `json:"positive"`
	Neutral           int64   `json:"neutral"`
	Negative          int64   `json:"negative"`
}
