package collector

import "strings"

// DefaultImpactKeywords 具有全球/行业级影响的词表，可通过配置覆盖
var DefaultImpactKeywords = []string{
	"worldwide", "global", "international", "breakthrough", "revolutionary",
	"major advancement", "groundbreaking", "milestone", "transformation",
	"industry-wide", "market-changing", "paradigm shift", "disruption",
	"innovation", "first-ever", "unprecedented",
	"game-changing", "leading", "pioneer", "revolution",
}

// ImpactClassifier 纯关键词匹配：大小写不敏感、子串匹配（非整词）
type ImpactClassifier struct {
	keywords []string
}

func NewImpactClassifier(keywords []string) *ImpactClassifier {
	if len(keywords) == 0 {
		keywords = DefaultImpactKeywords
	}
	kws := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		kws = append(kws, k)
	}
	return &ImpactClassifier{keywords: kws}
}

func (c *ImpactClassifier) Classify(title, description string) bool {
	content := strings.ToLower(title + " " + description)
	for _, k := range c.keywords {
		if strings.Contains(content, k) {
			return true
		}
	}
	return false
}
