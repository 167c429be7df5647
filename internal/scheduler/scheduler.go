package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LJTian/NewsHub/internal/collector"
	"github.com/LJTian/NewsHub/internal/processor"
	"github.com/LJTian/NewsHub/internal/storage"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// 延迟执行首轮采集，避免与服务启动争抢资源
const startupDelay = 15 * time.Second

var ErrRunInProgress = errors.New("scheduler: collect job already running")

// Runner 执行一轮聚合
type Runner interface {
	Run(ctx context.Context, sources []collector.Source) collector.Report
}

// Store 调度器依赖的存储能力
type Store interface {
	ListSources(activeOnly bool) ([]collector.Source, error)
	SaveBatch(items []processor.ProcessedNews) error
	SaveRunSummary(ctx context.Context, sum storage.RunSummary) error
}

type Scheduler struct {
	cron      *cron.Cron
	runner    Runner
	processor *processor.SimpleProcessor
	store     Store
	log       *zap.Logger

	mu      sync.Mutex
	running bool
}

func New(spec string, runner Runner, p *processor.SimpleProcessor, store Store, l *zap.Logger) (*Scheduler, error) {
	if l == nil {
		l = zap.NewNop()
	}
	c := cron.New()

	s := &Scheduler{
		cron:      c,
		runner:    runner,
		processor: p,
		store:     store,
		log:       l,
	}

	_, err := c.AddFunc(spec, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.log.Warn("scheduled collect failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	time.AfterFunc(startupDelay, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.log.Warn("initial collect failed", zap.Error(err))
		}
	})
}

// Stop 停止定时任务并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) Cron() *cron.Cron {
	return s.cron
}

// RunOnce 执行一轮采集并入库，同一时间只允许一轮
func (s *Scheduler) RunOnce(ctx context.Context) (storage.RunSummary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return storage.RunSummary{}, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.log.Info("start collect job")

	sources, err := s.store.ListSources(true)
	if err != nil {
		return storage.RunSummary{}, err
	}

	report := s.runner.Run(ctx, sources)
	processed := s.processor.Process(report.Items)
	if err := s.store.SaveBatch(processed); err != nil {
		return storage.RunSummary{}, err
	}

	sum := storage.SummaryFromReport(report, len(processed))
	if err := s.store.SaveRunSummary(ctx, sum); err != nil {
		s.log.Warn("save run summary failed", zap.Error(err))
	}

	// 条数 = 本轮解析到的数量（非“新增数”，已存在会更新）
	s.log.Info("collect job done",
		zap.Int("sources", len(sources)),
		zap.Int("items", sum.Items),
		zap.Int("saved", sum.Saved),
		zap.Strings("empty", sum.Empty),
	)
	return sum, nil
}
