package collector

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Report 一次聚合的结果以及每个源的贡献
type Report struct {
	Items     []Item         `json:"items"`
	PerSource map[string]int `json:"perSource"`
	// Empty 本轮没有贡献任何条目的活跃源（失败或页面无匹配）
	Empty     []string      `json:"empty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

type AggregatorOption func(*Aggregator)

// WithDeadline 为整轮聚合设置截止时间，超时后未完成的源会被取消（视为无贡献）
func WithDeadline(d time.Duration) AggregatorOption {
	return func(a *Aggregator) { a.deadline = d }
}

func WithAggregateLogger(l *zap.Logger) AggregatorOption {
	return func(a *Aggregator) { a.log = l }
}

// Aggregator 每个活跃源一个 goroutine 并发采集，全部结束后再合并排序
type Aggregator struct {
	ingestor SourceIngestor
	deadline time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewAggregator(ingestor SourceIngestor, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		ingestor: ingestor,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AggregateAll 返回按发布时间倒序的合并结果；不会失败，最坏情况为空切片
func (a *Aggregator) AggregateAll(ctx context.Context, sources []Source) []Item {
	return a.Run(ctx, sources).Items
}

func (a *Aggregator) Run(ctx context.Context, sources []Source) Report {
	started := a.now()

	active := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Active {
			active = append(active, s)
		}
	}

	if a.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.deadline)
		defer cancel()
	}

	// 每个源写入自己的槽位，合并前不共享可变状态
	results := make([][]Item, len(active))
	var wg sync.WaitGroup
	for i, src := range active {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = a.ingestor.Ingest(ctx, src)
		}(i, src)
	}
	wg.Wait()

	report := Report{
		Items:     make([]Item, 0),
		PerSource: make(map[string]int, len(active)),
		StartedAt: started,
	}
	for i, items := range results {
		report.PerSource[active[i].ID] = len(items)
		if len(items) == 0 {
			report.Empty = append(report.Empty, active[i].ID)
		}
		report.Items = append(report.Items, items...)
	}
	SortByDate(report.Items)
	report.Duration = a.now().Sub(started)

	a.log.Info("aggregate done",
		zap.Int("sources", len(active)),
		zap.Int("items", len(report.Items)),
		zap.Strings("empty", report.Empty),
		zap.Duration("duration", report.Duration),
	)
	return report
}

// SortByDate 稳定排序：发布时间新的在前，相同时间保持原顺序
func SortByDate(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
