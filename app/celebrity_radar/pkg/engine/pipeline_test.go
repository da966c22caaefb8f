package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

type mockCollector struct{ mock.Mock }

func (m *mockCollector) CollectMentions(ctx context.Context, name string, count int) []model.SearchResult {
	args := m.Called(name, count)
	return args.Get(0).([]model.SearchResult)
}

type mockCleaner struct{ mock.Mock }

func (m *mockCleaner) Clean(ctx context.Context, results []model.SearchResult) string {
	return m.Called(results).String(0)
}

type mockScorer struct{ mock.Mock }

func (m *mockScorer) Score(ctx context.Context, text string) float64 {
	return m.Called(text).Get(0).(float64)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) InsertMention(ctx context.Context, rec model.MentionRecord) (int64, error) {
	args := m.Called(rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) QueryRecent(ctx context.Context, limit int) ([]model.StoredMention, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredMention), args.Error(1)
}

type pipelineMocks struct {
	collector *mockCollector
	cleaner   *mockCleaner
	scorer    *mockScorer
	store     *mockStore
}

func newTestPipeline() (*Pipeline, pipelineMocks) {
	m := pipelineMocks{
		collector: new(mockCollector),
		cleaner:   new(mockCleaner),
		scorer:    new(mockScorer),
		store:     new(mockStore),
	}
	return NewPipeline(m.collector, m.cleaner, m.scorer, m.store, 0), m
}

var sampleResults = []model.SearchResult{
	{Title: "新聞一", Snippet: "內容一", Link: "https://a.example.com/1"},
	{Title: "新聞二", Snippet: "內容二", Link: "https://b.example.com/2"},
}

func TestPipeline_Process(t *testing.T) {
	p, m := newTestPipeline()
	m.collector.On("CollectMentions", "周杰倫", DefaultNumResults).Return(sampleResults)
	m.cleaner.On("Clean", sampleResults).Return("整理後摘要")
	m.scorer.On("Score", "整理後摘要").Return(0.7)
	m.store.On("InsertMention", model.MentionRecord{
		Name:             "周杰倫",
		CleanedParagraph: "整理後摘要",
		Source:           "https://a.example.com/1",
		Sentiment:        0.7,
	}).Return(int64(11), nil)

	got, err := p.Process(context.Background(), "周杰倫")
	require.NoError(t, err)
	assert.Equal(t, &model.ProcessingResult{
		RecordID:     11,
		Name:         "周杰倫",
		Sentiment:    0.7,
		MentionCount: 2,
		CleanedText:  "整理後摘要",
		Source:       "https://a.example.com/1",
	}, got)
	m.store.AssertExpectations(t)
}

func TestPipeline_NoSearchResults(t *testing.T) {
	p, m := newTestPipeline()
	m.collector.On("CollectMentions", "X", DefaultNumResults).Return([]model.SearchResult{})

	got, err := p.Process(context.Background(), "X")
	assert.NoError(t, err)
	assert.Nil(t, got)
	m.cleaner.AssertNotCalled(t, "Clean", mock.Anything)
}

func TestPipeline_EmptyCleanedText(t *testing.T) {
	p, m := newTestPipeline()
	m.collector.On("CollectMentions", "X", DefaultNumResults).Return(sampleResults)
	m.cleaner.On("Clean", sampleResults).Return("")

	got, err := p.Process(context.Background(), "X")
	assert.NoError(t, err)
	assert.Nil(t, got)
	m.scorer.AssertNotCalled(t, "Score", mock.Anything)
	m.store.AssertNotCalled(t, "InsertMention", mock.Anything)
}

func TestPipeline_StoreFailure(t *testing.T) {
	p, m := newTestPipeline()
	m.collector.On("CollectMentions", "X", DefaultNumResults).Return(sampleResults)
	m.cleaner.On("Clean", sampleResults).Return("text")
	m.scorer.On("Score", "text").Return(0.0)
	m.store.On("InsertMention", mock.Anything).Return(int64(0), errors.New("connection refused"))

	got, err := p.Process(context.Background(), "X")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestPipeline_MissingSourceLink(t *testing.T) {
	p, m := newTestPipeline()
	results := []model.SearchResult{{Title: "t", Snippet: "s"}}
	m.collector.On("CollectMentions", "X", DefaultNumResults).Return(results)
	m.cleaner.On("Clean", results).Return("text")
	m.scorer.On("Score", "text").Return(-0.2)
	m.store.On("InsertMention", mock.MatchedBy(func(r model.MentionRecord) bool {
		return r.Source == ""
	})).Return(int64(3), nil)

	got, err := p.Process(context.Background(), "X")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "", got.Source)
	assert.Equal(t, 1, got.MentionCount)
}

func TestPipeline_GetRecent(t *testing.T) {
	p, m := newTestPipeline()
	now := time.Now()
	long := strings.Repeat("字", 150)
	m.store.On("QueryRecent", 5).Return([]model.StoredMention{
		{ID: 2, Name: "A", Sentiment: 0.4, CreatedAt: now, CleanedParagraph: long},
		{ID: 1, Name: "B", Sentiment: -0.1, CreatedAt: now.Add(-time.Minute), CleanedParagraph: "short"},
	}, nil)

	got := p.GetRecent(context.Background(), 5)
	require.Len(t, got, 2)
	assert.Len(t, []rune(got[0].TextPreview), 100)
	assert.Equal(t, "short", got[1].TextPreview)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestPipeline_GetRecentError(t *testing.T) {
	p, m := newTestPipeline()
	m.store.On("QueryRecent", 5).Return(nil, errors.New("timeout"))

	got := p.GetRecent(context.Background(), 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
