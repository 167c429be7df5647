package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/LJTian/NewsHub/internal/collector"
	"github.com/redis/go-redis/v9"
)

const latestRunKey = "news:run:latest"

var ErrNoRun = errors.New("storage: no run recorded")

// RunSummary 一轮采集的概要，写入 Redis 供 API 查询
type RunSummary struct {
	StartedAt  time.Time      `json:"startedAt"`
	DurationMs int64          `json:"durationMs"`
	Items      int            `json:"items"`
	Saved      int            `json:"saved"`
	PerSource  map[string]int `json:"perSource"`
	Empty      []string       `json:"empty"`
}

func SummaryFromReport(r collector.Report, saved int) RunSummary {
	return RunSummary{
		StartedAt:  r.StartedAt,
		DurationMs: r.Duration.Milliseconds(),
		Items:      len(r.Items),
		Saved:      saved,
		PerSource:  r.PerSource,
		Empty:      r.Empty,
	}
}

func (s *Store) SaveRunSummary(ctx context.Context, sum RunSummary) error {
	if s.Redis == nil {
		return nil
	}
	bs, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, latestRunKey, bs, 0).Err()
}

func (s *Store) LatestRunSummary(ctx context.Context) (RunSummary, error) {
	if s.Redis == nil {
		return RunSummary{}, ErrNoRun
	}
	bs, err := s.Redis.Get(ctx, latestRunKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return RunSummary{}, ErrNoRun
	}
	if err != nil {
		return RunSummary{}, err
	}
	var sum RunSummary
	if err := json.Unmarshal(bs, &sum); err != nil {
		return RunSummary{}, err
	}
	return sum, nil
}
