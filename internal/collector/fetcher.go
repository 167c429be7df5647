package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "Mozilla/5.0 (compatible; NewsBot/1.0)"
	maxDocumentBytes  = 10 << 20 // 10MB
)

// DocumentFetcher 抽象一次逻辑上的文档抓取，方便测试替换
type DocumentFetcher interface {
	Fetch(ctx context.Context, targetURL string) (string, error)
}

// FetchPolicy 中转列表与重试参数。一次采集中所有源共享，只读
type FetchPolicy struct {
	Relays     []string
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
	UserAgent  string
}

func DefaultFetchPolicy() FetchPolicy {
	return FetchPolicy{
		Relays:     DefaultRelays,
		MaxRetries: defaultMaxRetries,
		BaseDelay:  defaultBaseDelay,
		Timeout:    defaultTimeout,
		UserAgent:  defaultUserAgent,
	}
}

// Sleeper 在两次尝试之间等待；ctx 取消时应立即返回错误
type Sleeper func(ctx context.Context, d time.Duration) error

type FetcherOption func(*RetryingFetcher)

func WithSleeper(s Sleeper) FetcherOption {
	return func(f *RetryingFetcher) { f.sleep = s }
}

func WithFetchLogger(l *zap.Logger) FetcherOption {
	return func(f *RetryingFetcher) { f.log = l }
}

// RetryingFetcher 通过中转抓取目标页面，失败后换下一个中转并线性退避重试
type RetryingFetcher struct {
	relays *RelaySelector
	policy FetchPolicy
	sleep  Sleeper
	log    *zap.Logger
}

func NewRetryingFetcher(policy FetchPolicy, opts ...FetcherOption) (*RetryingFetcher, error) {
	relays, err := NewRelaySelector(policy.Relays)
	if err != nil {
		return nil, err
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.Timeout <= 0 {
		policy.Timeout = defaultTimeout
	}
	if policy.UserAgent == "" {
		policy.UserAgent = defaultUserAgent
	}

	f := &RetryingFetcher{
		relays: relays,
		policy: policy,
		sleep:  sleepContext,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch 最多尝试 MaxRetries+1 次；第 k 次重试前等待 BaseDelay*k
func (f *RetryingFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	var lastErr error
	attempt := 0
	for {
		relayURL := f.relays.Wrap(attempt, targetURL)
		body, err := f.fetchOnce(ctx, relayURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt >= f.policy.MaxRetries {
			break
		}

		delay := f.policy.BaseDelay * time.Duration(attempt+1)
		f.log.Debug("fetch attempt failed, retrying",
			zap.String("target", targetURL),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := f.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
		attempt++
	}

	return "", &FetchExhaustedError{Target: targetURL, Attempts: attempt + 1, Cause: lastErr}
}

func (f *RetryingFetcher) fetchOnce(ctx context.Context, relayURL string) (string, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.policy.UserAgent),
		colly.StdlibContext(ctx),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(maxDocumentBytes),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.policy.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	var (
		body   string
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = string(r.Body)
	})

	if err := c.Visit(relayURL); err != nil {
		return "", &TransportError{URL: relayURL, Err: err}
	}
	if status != http.StatusOK {
		return "", &HTTPStatusError{URL: relayURL, StatusCode: status}
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("retry wait interrupted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
