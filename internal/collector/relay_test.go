package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelaySelectorRoundRobin(t *testing.T) {
	s, err := NewRelaySelector(DefaultRelays)
	require.NoError(t, err)
	n := s.Len()
	require.Equal(t, 3, n)

	seen := make(map[string]bool)
	for a := 0; a < n; a++ {
		seen[s.Select(a)] = true
	}
	assert.Len(t, seen, n, "first N selections must be pairwise distinct")

	for a := 0; a < 20; a++ {
		assert.Equal(t, s.Select(a), s.Select(a+n), "attempt %d", a)
	}
}

func TestRelaySelectorNegativeAttempt(t *testing.T) {
	s, err := NewRelaySelector([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "c", s.Select(-1))
}

func TestRelaySelectorRejectsEmptyList(t *testing.T) {
	_, err := NewRelaySelector(nil)
	require.ErrorIs(t, err, ErrNoRelays)
}

func TestRelaySelectorWrapEncodesTarget(t *testing.T) {
	s, err := NewRelaySelector([]string{"https://relay.example/raw?url="})
	require.NoError(t, err)
	got := s.Wrap(0, "https://news.example/blog?page=1&x=y")
	assert.Equal(t, "https://relay.example/raw?url=https%3A%2F%2Fnews.example%2Fblog%3Fpage%3D1%26x%3Dy", got)
}

func TestNewRelaySelectorCopiesInput(t *testing.T) {
	relays := []string{"a", "b"}
	s, err := NewRelaySelector(relays)
	require.NoError(t, err)
	relays[0] = "z"
	assert.Equal(t, "a", s.Select(0))
}
