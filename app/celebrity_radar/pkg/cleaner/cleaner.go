package cleaner

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/llm"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

// fallbackRunes LLM 失败时回退文本的最大长度
const fallbackRunes = 500

const systemPrompt = "你是一位新聞編輯，負責整理名人相關新聞。請用繁體中文回覆。"

const cleanPrompt = `請將以下關於某位名人的新聞摘要整理成一段連貫的文字，
保留重要資訊，移除重複內容和廣告文字。請用繁體中文回覆。

新聞內容：
%s

請提供清理後的摘要（200字以內）：`

const keyPointsPrompt = `從以下文字中提取3-5個關鍵要點，每個要點一行：

%s

關鍵要點：`

var adPhrases = []string{"點擊", "訂閱", "廣告", "贊助"}

// Cleaner 将搜索片段整理成一段摘要
type Cleaner struct {
	llm llm.Generator
}

// NewCleaner 创建 Cleaner
func NewCleaner(g llm.Generator) *Cleaner {
	return &Cleaner{llm: g}
}

// Clean 对搜索结果做摘要。LLM 失败时回退为原始拼接文本的前 500 字
func (c *Cleaner) Clean(ctx context.Context, results []model.SearchResult) string {
	if len(results) == 0 {
		logger.Log.Warn("没有可清理的搜索结果")
		return ""
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("%s: %s", r.Title, r.Snippet))
	}
	combined := strings.Join(lines, "\n")

	text, err := c.llm.Generate(ctx, systemPrompt, fmt.Sprintf(cleanPrompt, combined))
	if err != nil {
		logger.Log.Errorf("摘要生成失败: %v", err)
		fallback := truncateRunes(combined, fallbackRunes)
		logger.Log.Warnf("使用回退文本 (%d 字)", len([]rune(fallback)))
		return fallback
	}

	logger.Log.Infof("文本清理完成 (%d 字)", len([]rune(text)))
	return text
}

// ExtractKeyPoints 提取 3-5 个要点，每行一个
func (c *Cleaner) ExtractKeyPoints(ctx context.Context, text string) []string {
	if text == "" {
		return []string{}
	}

	resp, err := c.llm.Generate(ctx, systemPrompt, fmt.Sprintf(keyPointsPrompt, text))
	if err != nil {
		logger.Log.Errorf("要点提取失败: %v", err)
		return []string{}
	}

	points := []string{}
	for _, line := range strings.Split(resp, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			points = append(points, line)
		}
	}
	logger.Log.Infof("提取到 %d 个要点", len(points))
	return points
}

// CleanSimple 不调用 LLM 的简单清理：压缩空白并去掉常见广告词
func CleanSimple(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	for _, p := range adPhrases {
		text = strings.ReplaceAll(text, p, "")
	}
	return strings.TrimSpace(text)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
