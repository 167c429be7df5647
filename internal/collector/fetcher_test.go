package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayServer 模拟三个中转：路径 /r0 /r1 /r2，状态码由 statusFor 决定
type relayServer struct {
	*httptest.Server

	mu        sync.Mutex
	hits      []string
	targets   []string
	userAgent string
	statusFor func(relay string) int
}

func newRelayServer(t *testing.T, statusFor func(relay string) int) *relayServer {
	t.Helper()
	rs := &relayServer{statusFor: statusFor}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relay := strings.TrimPrefix(r.URL.Path, "/")
		rs.mu.Lock()
		rs.hits = append(rs.hits, relay)
		rs.targets = append(rs.targets, r.URL.Query().Get("u"))
		rs.userAgent = r.UserAgent()
		rs.mu.Unlock()

		status := rs.statusFor(relay)
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<html><body>via " + relay + "</body></html>"))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *relayServer) relays() []string {
	return []string{rs.URL + "/r0?u=", rs.URL + "/r1?u=", rs.URL + "/r2?u="}
}

func (rs *relayServer) hitList() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.hits...)
}

type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func testPolicy(relays []string) FetchPolicy {
	return FetchPolicy{
		Relays:     relays,
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
		Timeout:    5 * time.Second,
	}
}

func TestRetryingFetcherFirstAttemptSucceeds(t *testing.T) {
	rs := newRelayServer(t, func(string) int { return http.StatusOK })
	sl := &recordingSleeper{}
	f, err := NewRetryingFetcher(testPolicy(rs.relays()), WithSleeper(sl.sleep))
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), "https://news.example/blog")
	require.NoError(t, err)
	assert.Contains(t, body, "via r0")
	assert.Equal(t, []string{"r0"}, rs.hitList())
	assert.Empty(t, sl.waits)
	assert.Equal(t, "https://news.example/blog", rs.targets[0])
	assert.Equal(t, defaultUserAgent, rs.userAgent)
}

func TestRetryingFetcherRotatesRelaysWithLinearBackoff(t *testing.T) {
	rs := newRelayServer(t, func(relay string) int {
		if relay == "r2" {
			return http.StatusOK
		}
		return http.StatusServiceUnavailable
	})
	sl := &recordingSleeper{}
	f, err := NewRetryingFetcher(testPolicy(rs.relays()), WithSleeper(sl.sleep))
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), "https://news.example/blog")
	require.NoError(t, err)
	assert.Contains(t, body, "via r2")
	assert.Equal(t, []string{"r0", "r1", "r2"}, rs.hitList())
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, sl.waits)
}

func TestRetryingFetcherExhaustsRetries(t *testing.T) {
	rs := newRelayServer(t, func(string) int { return http.StatusInternalServerError })
	sl := &recordingSleeper{}
	f, err := NewRetryingFetcher(testPolicy(rs.relays()), WithSleeper(sl.sleep))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "https://news.example/blog")
	require.Error(t, err)

	var exhausted *FetchExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)

	// maxRetries+1 次尝试，第四次回到第一个中转
	assert.Equal(t, []string{"r0", "r1", "r2", "r0"}, rs.hitList())
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
	}, sl.waits)
}

func TestRetryingFetcherZeroRetries(t *testing.T) {
	rs := newRelayServer(t, func(string) int { return http.StatusNotFound })
	sl := &recordingSleeper{}
	policy := testPolicy(rs.relays())
	policy.MaxRetries = 0
	f, err := NewRetryingFetcher(policy, WithSleeper(sl.sleep))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "https://news.example/blog")
	require.Error(t, err)
	assert.Len(t, rs.hitList(), 1)
	assert.Empty(t, sl.waits)
}

func TestRetryingFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	dead := srv.URL + "/?u="
	srv.Close()

	sl := &recordingSleeper{}
	policy := testPolicy([]string{dead})
	policy.MaxRetries = 1
	f, err := NewRetryingFetcher(policy, WithSleeper(sl.sleep))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "https://news.example/blog")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, sl.waits)
}

func TestRetryingFetcherStopsWhenWaitInterrupted(t *testing.T) {
	rs := newRelayServer(t, func(string) int { return http.StatusBadGateway })
	stop := errors.New("stop")
	f, err := NewRetryingFetcher(testPolicy(rs.relays()), WithSleeper(func(context.Context, time.Duration) error {
		return stop
	}))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "https://news.example/blog")
	require.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"r0"}, rs.hitList())
}

func TestNewRetryingFetcherRequiresRelays(t *testing.T) {
	_, err := NewRetryingFetcher(FetchPolicy{})
	require.ErrorIs(t, err, ErrNoRelays)
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sleepContext(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultFetchPolicy(t *testing.T) {
	p := DefaultFetchPolicy()
	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, 2*time.Second, p.BaseDelay)
	assert.Equal(t, 30*time.Second, p.Timeout)
	assert.Len(t, p.Relays, 3)
}
