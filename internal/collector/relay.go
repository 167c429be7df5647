package collector

import "net/url"

// DefaultRelays 三个公开的 CORS 中转，按顺序轮换
var DefaultRelays = []string{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?",
	"https://api.codetabs.com/v1/proxy?quest=",
}

// RelaySelector 按尝试次数轮询中转地址：relays[attempt mod N]。
// 连续 N 次尝试内每个中转都会被用到一次
type RelaySelector struct {
	relays []string
}

func NewRelaySelector(relays []string) (*RelaySelector, error) {
	if len(relays) == 0 {
		return nil, ErrNoRelays
	}
	cp := make([]string, len(relays))
	copy(cp, relays)
	return &RelaySelector{relays: cp}, nil
}

func (s *RelaySelector) Len() int {
	return len(s.relays)
}

func (s *RelaySelector) Select(attempt int) string {
	n := len(s.relays)
	idx := attempt % n
	if idx < 0 {
		idx += n
	}
	return s.relays[idx]
}

// Wrap 将目标地址编码后拼接在中转模板之后
func (s *RelaySelector) Wrap(attempt int, target string) string {
	return s.Select(attempt) + url.QueryEscape(target)
}
