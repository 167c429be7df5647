package processor

import (
	"strings"
	"time"

	"github.com/LJTian/NewsHub/internal/collector"
)

const descriptionMaxRunes = 200

// ProcessedNews 是写入存储层前的统一结构
type ProcessedNews struct {
	ID           string
	Title        string
	Description  string
	PublishedAt  time.Time
	// Undated 页面上没有可解析的日期，PublishedAt 为采集时间
	Undated      bool
	ImageURL     string
	Link         string
	SourceID     string
	Source       string
	Category     string
	GlobalImpact bool
}

// SimpleProcessor 做最基础的数据清洗。不做跨源去重，同一批次内 ID 相同的只保留第一条
type SimpleProcessor struct {
	now func() time.Time
}

func NewSimpleProcessor() *SimpleProcessor {
	return &SimpleProcessor{now: time.Now}
}

func (p *SimpleProcessor) Process(items []collector.Item) []ProcessedNews {
	out := make([]ProcessedNews, 0, len(items))
	seen := make(map[string]struct{})
	runAt := p.now()

	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}

		title := toValidUTF8(strings.TrimSpace(it.Title))
		desc := toValidUTF8(strings.TrimSpace(it.Description))
		if desc == "" {
			// 没有介绍时用标题兜底
			desc = title
		}

		pub := it.PublishedAt
		undated := pub.IsZero()
		if undated {
			pub = runAt
		}

		out = append(out, ProcessedNews{
			ID:           it.ID,
			Title:        title,
			Description:  truncateRunes(desc, descriptionMaxRunes),
			PublishedAt:  pub,
			Undated:      undated,
			ImageURL:     it.ImageURL,
			Link:         it.Link,
			SourceID:     it.SourceID,
			Source:       it.Source,
			Category:     it.Category,
			GlobalImpact: it.GlobalImpact,
		})
	}

	return out
}

// truncateRunes 按 rune 截断并追加省略号
func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "…"
}

func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
