package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/LJTian/NewsHub/internal/processor"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
	listCacheTTL     = 5 * time.Minute
)

type News struct {
	ID           string    `gorm:"primaryKey;size:80" json:"id"`
	Title        string    `gorm:"size:512" json:"title"`
	Description  string    `gorm:"size:600" json:"description"`
	PublishedAt  time.Time `gorm:"index" json:"date"`
	Undated      bool      `json:"undated"`
	ImageURL     string    `gorm:"size:1024" json:"imageUrl,omitempty"`
	Link         string    `gorm:"size:1024" json:"link,omitempty"`
	SourceID     string    `gorm:"size:64;index" json:"sourceId"`
	Source       string    `gorm:"size:128" json:"source"`
	Category     string    `gorm:"size:64;index" json:"category"`
	GlobalImpact bool      `gorm:"index" json:"isGlobalImpact"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&SourceRecord{}, &News{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

func newsFromProcessed(it processor.ProcessedNews) News {
	return News{
		ID:           it.ID,
		Title:        truncateRunesDB(it.Title, 512),
		Description:  truncateRunesDB(it.Description, 600),
		PublishedAt:  it.PublishedAt,
		Undated:      it.Undated,
		ImageURL:     truncateRunesDB(it.ImageURL, 1024),
		Link:         truncateRunesDB(it.Link, 1024),
		SourceID:     it.SourceID,
		Source:       it.Source,
		Category:     it.Category,
		GlobalImpact: it.GlobalImpact,
	}
}

// truncateRunesDB 按 rune 数截断，确保不超过字段长度
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// SaveBatch 以 ID 为幂等键写入一批新闻，已存在的更新内容字段
func (s *Store) SaveBatch(items []processor.ProcessedNews) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]News, 0, len(items))
	for _, it := range items {
		rows = append(rows, newsFromProcessed(it))
	}

	// 列表缓存依赖短 TTL 自然过期，这里不做通配删除
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "published_at", "undated", "image_url", "link",
			"source", "category", "global_impact", "updated_at",
		}),
	}).CreateInBatches(rows, 200).Error
}

// NewsQuery 列表筛选条件，零值表示不过滤
type NewsQuery struct {
	Category   string
	SourceID   string
	ImpactOnly bool
	Limit      int
}

func (q NewsQuery) normalized() NewsQuery {
	if q.Limit <= 0 || q.Limit > maxListLimit {
		q.Limit = defaultListLimit
	}
	return q
}

func (q NewsQuery) cacheKey() string {
	return fmt.Sprintf("news:list:%s:%s:%s:%d", q.Category, q.SourceID, strconv.FormatBool(q.ImpactOnly), q.Limit)
}

// ListNews 按发布时间倒序返回新闻，使用 Redis 做简单缓存
func (s *Store) ListNews(q NewsQuery) ([]News, error) {
	q = q.normalized()
	ctx := context.Background()
	cacheKey := q.cacheKey()

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []News
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	db := s.DB.Model(&News{})
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.SourceID != "" {
		db = db.Where("source_id = ?", q.SourceID)
	}
	if q.ImpactOnly {
		db = db.Where("global_impact = ?", true)
	}

	var list []News
	if err := db.Order("undated ASC").Order("published_at DESC").Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}
	return list, nil
}
