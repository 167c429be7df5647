package collector

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// SourceIngestor 对单个源执行 抓取 → 解析 → 打标，失败时返回空结果
type SourceIngestor interface {
	Ingest(ctx context.Context, src Source) []Item
}

type IngestorOption func(*Ingestor)

func WithIngestLogger(l *zap.Logger) IngestorOption {
	return func(i *Ingestor) { i.log = l }
}

// Ingestor 是单源失败的隔离边界：内部任何错误（包括 panic）都只会上报给 sink
type Ingestor struct {
	fetcher    DocumentFetcher
	classifier *ImpactClassifier
	sink       ErrorSink
	log        *zap.Logger
}

func NewIngestor(fetcher DocumentFetcher, classifier *ImpactClassifier, sink ErrorSink, opts ...IngestorOption) *Ingestor {
	if classifier == nil {
		classifier = NewImpactClassifier(nil)
	}
	if sink == nil {
		sink = SinkFunc(func(*SourceFailure) {})
	}
	i := &Ingestor{
		fetcher:    fetcher,
		classifier: classifier,
		sink:       sink,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Ingestor) Ingest(ctx context.Context, src Source) (items []Item) {
	if !src.Active {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			i.report(src, fmt.Errorf("panic: %v", r))
			items = nil
		}
	}()

	items, err := i.ingest(ctx, src)
	if err != nil {
		i.report(src, err)
		return nil
	}
	i.log.Info("source ingested", zap.String("source", src.Name), zap.Int("items", len(items)))
	return items
}

func (i *Ingestor) ingest(ctx context.Context, src Source) ([]Item, error) {
	raw, err := i.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	drafts, err := ParseDocumentAt(raw, src.URL, src.Selectors)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		i.log.Warn("source matched no items", zap.String("source", src.Name))
	}

	items := make([]Item, 0, len(drafts))
	for idx, d := range drafts {
		items = append(items, Item{
			ID:           itemID(src.ID, d, idx),
			Title:        d.Title,
			Description:  d.Description,
			PublishedAt:  d.PublishedAt,
			ImageURL:     d.ImageURL,
			Link:         d.Link,
			SourceID:     src.ID,
			Source:       src.Name,
			Category:     src.Category,
			GlobalImpact: i.classifier.Classify(d.Title, d.Description),
		})
	}
	return items, nil
}

func (i *Ingestor) report(src Source, cause error) {
	i.sink.Report(&SourceFailure{
		SourceID:   src.ID,
		SourceName: src.Name,
		Message:    "Failed to fetch news from " + src.Name,
		Cause:      cause,
	})
}

// itemID 在一次采集内唯一：源 ID + 链接/标题/位置的哈希
func itemID(sourceID string, d Draft, idx int) string {
	h := sha1.New()
	h.Write([]byte(d.Link))
	h.Write([]byte{0})
	h.Write([]byte(d.Title))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(idx)))
	return sourceID + "-" + hex.EncodeToString(h.Sum(nil))[:12]
}
