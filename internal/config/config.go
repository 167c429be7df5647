package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LJTian/NewsHub/internal/collector"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	CronSpec    string
	SourcesFile string

	// 中转与重试
	RelayURLs      []string
	FetchRetries   int
	FetchBaseDelay time.Duration
	FetchTimeout   time.Duration
	FetchUserAgent string

	ImpactKeywords []string
	// AggregateDeadline 整轮采集的截止时间，0 表示不限制
	AggregateDeadline time.Duration

	LogDebug bool
}

func Load() *Config {
	cfg := &Config{
		AppPort:     getEnv("APP_PORT", "9000"),
		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=newshub password=newshub dbname=newshub port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6380"),
		CronSpec:    getEnv("CRON_SPEC", "*/30 * * * *"),
		SourcesFile: getEnv("SOURCES_FILE", ""),

		RelayURLs:      getEnvList("RELAY_URLS", collector.DefaultRelays),
		FetchRetries:   getEnvInt("FETCH_MAX_RETRIES", 3),
		FetchBaseDelay: getEnvDuration("FETCH_BASE_DELAY", 2*time.Second),
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchUserAgent: getEnv("FETCH_USER_AGENT", "Mozilla/5.0 (compatible; NewsBot/1.0)"),

		ImpactKeywords:    getEnvList("IMPACT_KEYWORDS", collector.DefaultImpactKeywords),
		AggregateDeadline: getEnvDuration("AGGREGATE_DEADLINE", 0),

		LogDebug: getEnvBool("LOG_DEBUG", false),
	}

	log.Printf("config loaded: port=%s cron=%s relays=%d retries=%d", cfg.AppPort, cfg.CronSpec, len(cfg.RelayURLs), cfg.FetchRetries)
	return cfg
}

// FetchPolicy 由配置构造抓取策略
func (c *Config) FetchPolicy() collector.FetchPolicy {
	return collector.FetchPolicy{
		Relays:     c.RelayURLs,
		MaxRetries: c.FetchRetries,
		BaseDelay:  c.FetchBaseDelay,
		Timeout:    c.FetchTimeout,
		UserAgent:  c.FetchUserAgent,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		log.Printf("warn: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

// getEnvDuration 支持 "2s"、"500ms"，纯数字按毫秒处理
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("warn: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvList 逗号分隔，忽略空项；全部为空时返回默认值
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
