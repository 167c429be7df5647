package processor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LJTian/NewsHub/internal/collector"
)

func TestTruncateRunesHandlesChineseAndEllipsis(t *testing.T) {
	s := "你好，世界，这是一个很长的中文句子，用来测试截断逻辑。"
	out := truncateRunes(s, 5)
	assert.Len(t, []rune(out), 6) // 5 个字符 + 1 个省略号
	assert.True(t, strings.HasSuffix(out, "…"))

	// limit 大于长度时不应截断
	assert.Equal(t, "短文本", truncateRunes("短文本", 10))
}

func TestSimpleProcessorKeepsCrossSourceDuplicates(t *testing.T) {
	p := NewSimpleProcessor()
	now := time.Now()

	items := []collector.Item{
		{ID: "a-1", Title: "Same story", SourceID: "a", PublishedAt: now},
		{ID: "b-1", Title: "Same story", SourceID: "b", PublishedAt: now},
		{ID: "a-1", Title: "Same story", SourceID: "a", PublishedAt: now},
	}

	out := p.Process(items)
	require.Len(t, out, 2)
	assert.Equal(t, "a-1", out[0].ID)
	assert.Equal(t, "b-1", out[1].ID)
}

func TestSimpleProcessorFillsDescriptionAndDate(t *testing.T) {
	runAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	p := &SimpleProcessor{now: func() time.Time { return runAt }}

	out := p.Process([]collector.Item{
		{ID: "x", Title: "  Title only  ", GlobalImpact: true, Category: "Research"},
		{ID: "y", Title: "Long", Description: strings.Repeat("a", 300), PublishedAt: runAt.Add(-time.Hour)},
	})
	require.Len(t, out, 2)

	assert.Equal(t, "Title only", out[0].Title)
	assert.Equal(t, "Title only", out[0].Description)
	assert.True(t, out[0].Undated)
	assert.Equal(t, runAt, out[0].PublishedAt)
	assert.True(t, out[0].GlobalImpact)
	assert.Equal(t, "Research", out[0].Category)

	assert.False(t, out[1].Undated)
	assert.Len(t, []rune(out[1].Description), descriptionMaxRunes+1)
}

func TestToValidUTF8(t *testing.T) {
	assert.Equal(t, "a�b", toValidUTF8("a\xffb"))
}
