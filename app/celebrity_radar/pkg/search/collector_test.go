package search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

type fakeProvider struct {
	resp     *Response
	err      error
	total    int64
	totalErr error

	lastReq   *Request
	lastQuery string
}

func (f *fakeProvider) Search(ctx context.Context, req *Request) (*Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeProvider) TotalResults(ctx context.Context, query string) (int64, error) {
	f.lastQuery = query
	return f.total, f.totalErr
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		QueryTemplate:   "%s Taiwan 新聞",
		MentionTemplate: "%s Taiwan",
		MinSnippetLen:   20,
		Google:          config.GoogleConfig{DateRestrict: "d1", Language: "lang_zh-TW"},
	}
}

func TestCollector_CollectMentions(t *testing.T) {
	p := &fakeProvider{resp: &Response{Results: []Result{
		{Title: "新歌發表", URL: "https://news.example/1", Content: "周杰倫今天發表新歌"},
		{Title: "演唱會", URL: "https://news.example/2", Content: "巡迴演唱會加場"},
	}}}
	c := NewCollector(p, testSearchConfig())
	c.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local) }

	got := c.CollectMentions(context.Background(), "周杰倫", 5)

	require.Len(t, got, 2)
	assert.Equal(t, model.SearchResult{
		Title:   "新歌發表",
		Snippet: "周杰倫今天發表新歌",
		Link:    "https://news.example/1",
		Date:    "2026-10-19",
	}, got[0])
	assert.Equal(t, "周杰倫 Taiwan 新聞", p.lastReq.Query)
	assert.Equal(t, 5, p.lastReq.MaxResults)
	assert.Equal(t, "d1", p.lastReq.DateRestrict)
	assert.Equal(t, "lang_zh-TW", p.lastReq.Language)
}

func TestCollector_CollectMentions_ErrorYieldsEmpty(t *testing.T) {
	c := NewCollector(&fakeProvider{err: errors.New("quota exceeded")}, testSearchConfig())

	got := c.CollectMentions(context.Background(), "X", 10)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollector_FetchesShortSnippets(t *testing.T) {
	p := &fakeProvider{resp: &Response{Results: []Result{
		{Title: "short", URL: "https://news.example/short", Content: "短"},
		{Title: "long", URL: "https://news.example/long", Content: strings.Repeat("長", 30)},
		{Title: "broken", URL: "https://news.example/broken", Content: "壞"},
	}}}
	var fetched []string
	c := NewCollector(p, testSearchConfig()).WithFetcher(func(url string) (string, error) {
		fetched = append(fetched, url)
		if strings.HasSuffix(url, "broken") {
			return "", errors.New("timeout")
		}
		return strings.Repeat("文", 1500), nil
	})

	got := c.CollectMentions(context.Background(), "X", 3)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"https://news.example/short", "https://news.example/broken"}, fetched)
	assert.Equal(t, maxFetchedRunes, len([]rune(got[0].Snippet)))
	assert.Equal(t, strings.Repeat("長", 30), got[1].Snippet)
	assert.Equal(t, "壞", got[2].Snippet)
}

func TestCollector_TotalMentions(t *testing.T) {
	p := &fakeProvider{total: 12345}
	c := NewCollector(p, testSearchConfig())

	assert.Equal(t, int64(12345), c.TotalMentions(context.Background(), "蔡依林"))
	assert.Equal(t, "蔡依林 Taiwan", p.lastQuery)

	p.totalErr = errors.New("boom")
	assert.Equal(t, int64(0), c.TotalMentions(context.Background(), "蔡依林"))
}
