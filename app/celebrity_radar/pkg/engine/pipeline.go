package engine

import (
	"context"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

// DefaultNumResults 每位名人默认收集的新闻条数
const DefaultNumResults = 10

// previewRunes 最近数据预览的长度
const previewRunes = 100

// MentionCollector 搜索服务，失败时返回空列表
type MentionCollector interface {
	CollectMentions(ctx context.Context, name string, count int) []model.SearchResult
}

// TextCleaner 文本清理服务，失败时返回空串或回退文本
type TextCleaner interface {
	Clean(ctx context.Context, results []model.SearchResult) string
}

// SentimentScorer 情感打分服务，返回 [-1, 1]，失败时返回 0
type SentimentScorer interface {
	Score(ctx context.Context, text string) float64
}

// RecordStore 存储服务
type RecordStore interface {
	InsertMention(ctx context.Context, rec model.MentionRecord) (int64, error)
	QueryRecent(ctx context.Context, limit int) ([]model.StoredMention, error)
}

// Processor 处理单个实体。返回 (nil, nil) 表示处理失败
type Processor interface {
	Process(ctx context.Context, name string) (*model.ProcessingResult, error)
}

// Pipeline 搜索 -> 清理 -> 打分 -> 存储
type Pipeline struct {
	collector  MentionCollector
	cleaner    TextCleaner
	scorer     SentimentScorer
	store      RecordStore
	numResults int
}

// Ensure Pipeline implements Processor
var _ Processor = (*Pipeline)(nil)

// NewPipeline 创建 Pipeline，numResults <= 0 时使用默认值
func NewPipeline(collector MentionCollector, cleaner TextCleaner, scorer SentimentScorer, store RecordStore, numResults int) *Pipeline {
	if numResults <= 0 {
		numResults = DefaultNumResults
	}
	return &Pipeline{
		collector:  collector,
		cleaner:    cleaner,
		scorer:     scorer,
		store:      store,
		numResults: numResults,
	}
}

// Process 依次执行四个阶段，任一阶段没有产出即返回 nil
func (p *Pipeline) Process(ctx context.Context, name string) (*model.ProcessingResult, error) {
	logger.Log.Infof("处理名人 [%s]...", name)

	results := p.collector.CollectMentions(ctx, name, p.numResults)
	if len(results) == 0 {
		logger.Log.Warnf("名人 [%s] 没有搜索结果", name)
		return nil, nil
	}

	cleaned := p.cleaner.Clean(ctx, results)
	if cleaned == "" {
		logger.Log.Warnf("名人 [%s] 清理后文本为空", name)
		return nil, nil
	}

	score := p.scorer.Score(ctx, cleaned)
	source := results[0].Link

	id, err := p.store.InsertMention(ctx, model.MentionRecord{
		Name:             name,
		CleanedParagraph: cleaned,
		Source:           source,
		Sentiment:        score,
	})
	if err != nil || id == 0 {
		logger.Log.Errorf("名人 [%s] 存储失败: %v", name, err)
		return nil, nil
	}

	logger.Log.Infof("✓ %s: sentiment=%.2f, mentions=%d, record_id=%d", name, score, len(results), id)
	return &model.ProcessingResult{
		RecordID:     id,
		Name:         name,
		Sentiment:    score,
		MentionCount: len(results),
		CleanedText:  cleaned,
		Source:       source,
	}, nil
}

// GetRecent 最近的记录，文本截断为 100 字预览。查询失败时返回空列表
func (p *Pipeline) GetRecent(ctx context.Context, limit int) []model.RecentRecord {
	rows, err := p.store.QueryRecent(ctx, limit)
	if err != nil {
		logger.Log.Errorf("查询最近数据失败: %v", err)
		return []model.RecentRecord{}
	}

	out := make([]model.RecentRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.RecentRecord{
			ID:          r.ID,
			Name:        r.Name,
			Sentiment:   r.Sentiment,
			CreatedAt:   r.CreatedAt,
			TextPreview: preview(r.CleanedParagraph),
		})
	}
	return out
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes])
}
