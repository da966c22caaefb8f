package sentiment

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/llm"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
)

// Label 情感分类
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Threshold 正负面分界
const Threshold = 0.3

const systemPrompt = "你是一位情感分析專家，只依照要求的格式回覆。"

const scorePrompt = `請分析以下文字的情感傾向。
回覆格式：只回覆一個-1.0到1.0之間的數字
-1.0 = 非常負面
0.0 = 中性
1.0 = 非常正面

文字內容：
%s

情感分數：`

const explainPrompt = `請分析以下文字的情感傾向，並提供簡短解釋。

文字內容：
%s

請以下列格式回覆：
分數：[數字]
解釋：[簡短說明]

分數範圍：-1.0（非常負面）到 1.0（非常正面）`

var (
	numberRe      = regexp.MustCompile(`-?\d+\.?\d*`)
	scoreLineRe   = regexp.MustCompile(`分數[：:]\s*(-?\d+\.?\d*)`)
	explainLineRe = regexp.MustCompile(`(?s)解釋[：:]\s*(.+)`)
)

// Analyzer 情感打分服务，任何失败都返回 0
type Analyzer struct {
	llm llm.Generator
}

// NewAnalyzer 创建 Analyzer
func NewAnalyzer(g llm.Generator) *Analyzer {
	return &Analyzer{llm: g}
}

// Score 返回 [-1, 1] 之间的情感分数
func (a *Analyzer) Score(ctx context.Context, text string) float64 {
	if text == "" {
		logger.Log.Warn("情感分析输入为空")
		return 0
	}

	resp, err := a.llm.Generate(ctx, systemPrompt, fmt.Sprintf(scorePrompt, text))
	if err != nil {
		logger.Log.Errorf("情感分析失败: %v", err)
		return 0
	}

	m := numberRe.FindString(resp)
	if m == "" {
		logger.Log.Warnf("无法解析情感分数: %q", resp)
		return 0
	}
	score, err := strconv.ParseFloat(m, 64)
	if err != nil {
		logger.Log.Warnf("无法解析情感分数: %q", resp)
		return 0
	}

	score = clamp(score)
	logger.Log.Infof("情感分数: %.2f", score)
	return score
}

// AnalyzeWithExplanation 返回分数及简短解释
func (a *Analyzer) AnalyzeWithExplanation(ctx context.Context, text string) (float64, string) {
	if text == "" {
		return 0, "no text provided"
	}

	resp, err := a.llm.Generate(ctx, systemPrompt, fmt.Sprintf(explainPrompt, text))
	if err != nil {
		logger.Log.Errorf("情感分析失败: %v", err)
		return 0, "analysis failed"
	}

	var score float64
	if m := scoreLineRe.FindStringSubmatch(resp); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			score = clamp(v)
		}
	}

	explanation := resp
	if m := explainLineRe.FindStringSubmatch(resp); m != nil {
		explanation = strings.TrimSpace(m[1])
	}
	return score, explanation
}

// Classify 按 ±0.3 划分正面、中性、负面
func Classify(score float64) Label {
	switch {
	case score >= Threshold:
		return Positive
	case score <= -Threshold:
		return Negative
	default:
		return Neutral
	}
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
