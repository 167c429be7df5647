package main

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/LJTian/NewsHub/internal/api"
	"github.com/LJTian/NewsHub/internal/collector"
	"github.com/LJTian/NewsHub/internal/config"
	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/processor"
	"github.com/LJTian/NewsHub/internal/scheduler"
	"github.com/LJTian/NewsHub/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zl := logger.Must(cfg.LogDebug)
	defer func() { _ = zl.Sync() }()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	// 首次启动写入默认源（或 SOURCES_FILE 中的源），已存在的不覆盖
	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("load sources failed: %v", err)
	}
	if err := store.SeedSources(sources); err != nil {
		log.Fatalf("seed sources failed: %v", err)
	}

	fetcher, err := collector.NewRetryingFetcher(cfg.FetchPolicy(), collector.WithFetchLogger(zl.Named("fetcher")))
	if err != nil {
		log.Fatalf("init fetcher failed: %v", err)
	}
	ingestor := collector.NewIngestor(
		fetcher,
		collector.NewImpactClassifier(cfg.ImpactKeywords),
		collector.NewZapSink(zl.Named("sources")),
		collector.WithIngestLogger(zl.Named("ingest")),
	)
	aggregator := collector.NewAggregator(ingestor,
		collector.WithDeadline(cfg.AggregateDeadline),
		collector.WithAggregateLogger(zl.Named("aggregate")),
	)

	s, err := scheduler.New(cfg.CronSpec, aggregator, processor.NewSimpleProcessor(), store, zl.Named("scheduler"))
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()
	defer s.Stop()

	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if user, pass := os.Getenv("APP_BASIC_USER"), os.Getenv("APP_BASIC_PASS"); user != "" && pass != "" {
		r.Use(basicAuthMiddleware(user, pass))
	}

	api.NewServer(store, s).RegisterRoutes(r)

	// 若配置了前端目录，则托管 SPA 静态文件并做 fallback
	if webRoot := os.Getenv("WEB_ROOT"); webRoot != "" {
		r.Static("/assets", filepath.Join(webRoot, "assets"))
		indexFile := filepath.Join(webRoot, "index.html")
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet {
				c.Status(http.StatusNotFound)
				return
			}
			c.File(indexFile)
		})
	}

	addr := ":" + cfg.AppPort
	zl.Info("starting api server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// basicAuthMiddleware 为整个站点增加一个简单的 Basic Auth 访问密码，/health 不做认证
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
