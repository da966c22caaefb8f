package search

import (
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// FetchContent 抓取 URL 并提取核心文本
func FetchContent(url string) (string, error) {
	article, err := readability.FromURL(url, 30*time.Second)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(article.TextContent), " "), nil
}
