package collector

import (
	"errors"
	"fmt"
)

var (
	ErrNoRelays           = errors.New("collector: relay list is empty")
	ErrUnreadableDocument = errors.New("collector: unreadable document")
)

// TransportError 单次请求的网络/超时失败，会被重试
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError 非 200 响应，重试策略与 TransportError 相同
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d (%s)", e.StatusCode, e.URL)
}

// FetchExhaustedError 重试次数用尽，Cause 为最后一次失败原因
type FetchExhaustedError struct {
	Target   string
	Attempts int
	Cause    error
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.Target, e.Attempts, e.Cause)
}

func (e *FetchExhaustedError) Unwrap() error { return e.Cause }

// SourceFailure 在 Ingestor 边界对任意失败的包装，只会被上报，不会向上传播
type SourceFailure struct {
	SourceID   string
	SourceName string
	Message    string
	Cause      error
}

func (f *SourceFailure) Error() string {
	if f.Cause == nil {
		return f.Message
	}
	return f.Message + ": " + f.Cause.Error()
}

func (f *SourceFailure) Unwrap() error { return f.Cause }

// CauseText 返回底层原因的描述，便于写入日志
func (f *SourceFailure) CauseText() string {
	if f.Cause == nil {
		return "Unknown error"
	}
	return f.Cause.Error()
}
