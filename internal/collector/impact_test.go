package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImpactClassifierCaseInsensitive(t *testing.T) {
	c := NewImpactClassifier(nil)
	assert.Equal(t, c.Classify("BREAKTHROUGH result", ""), c.Classify("breakthrough result", ""))
	assert.True(t, c.Classify("BREAKTHROUGH result", ""))
}

func TestImpactClassifierSubstringMatch(t *testing.T) {
	c := NewImpactClassifier(nil)
	cases := []struct {
		title, desc string
		want        bool
	}{
		{"Globalization of chips", "", true}, // 子串匹配，非整词
		{"Quarterly update", "a paradigm shift in training", true},
		{"Quarterly update", "minor fixes", false},
		{"", "", false},
		{"Misleading headline", "", true}, // "leading"
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.title, tc.desc), "%q / %q", tc.title, tc.desc)
	}
}

func TestImpactClassifierCustomKeywords(t *testing.T) {
	c := NewImpactClassifier([]string{"  Quantum ", ""})
	assert.True(t, c.Classify("new QUANTUM chip", ""))
	assert.False(t, c.Classify("global news", ""))
}

func TestImpactClassifierSpansTitleAndDescription(t *testing.T) {
	c := NewImpactClassifier([]string{"major advancement"})
	assert.True(t, c.Classify("A major", "advancement"))
}
