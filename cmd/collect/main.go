package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/LJTian/NewsHub/internal/collector"
	"github.com/LJTian/NewsHub/internal/config"
	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/processor"
	"github.com/LJTian/NewsHub/internal/scheduler"
	"github.com/LJTian/NewsHub/internal/storage"
)

// 一个仅执行一次采集任务的命令行入口：适合手动触发采集。
// -dry-run 时不连接数据库，直接把聚合结果以 JSON 输出到 stdout
func main() {
	dryRun := flag.Bool("dry-run", false, "print aggregated items as JSON instead of saving them")
	flag.Parse()

	cfg := config.Load()
	zl := logger.Must(cfg.LogDebug)
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher, err := collector.NewRetryingFetcher(cfg.FetchPolicy(), collector.WithFetchLogger(zl.Named("fetcher")))
	if err != nil {
		log.Fatalf("init fetcher failed: %v", err)
	}
	aggregator := collector.NewAggregator(
		collector.NewIngestor(fetcher,
			collector.NewImpactClassifier(cfg.ImpactKeywords),
			collector.NewZapSink(zl.Named("sources")),
			collector.WithIngestLogger(zl.Named("ingest")),
		),
		collector.WithDeadline(cfg.AggregateDeadline),
		collector.WithAggregateLogger(zl.Named("aggregate")),
	)

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("load sources failed: %v", err)
	}

	if *dryRun {
		items := aggregator.AggregateAll(ctx, sources)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			log.Fatalf("encode items failed: %v", err)
		}
		return
	}

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}
	if err := store.SeedSources(sources); err != nil {
		log.Fatalf("seed sources failed: %v", err)
	}

	s, err := scheduler.New(cfg.CronSpec, aggregator, processor.NewSimpleProcessor(), store, zl.Named("scheduler"))
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	// 只执行一轮采集任务后退出
	sum, err := s.RunOnce(ctx)
	if err != nil {
		log.Fatalf("collect failed: %v", err)
	}
	log.Printf("collect done: items=%d saved=%d empty=%v", sum.Items, sum.Saved, sum.Empty)
}
