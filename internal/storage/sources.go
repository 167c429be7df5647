package storage

import (
	"errors"
	"time"

	"github.com/LJTian/NewsHub/internal/collector"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrSourceNotFound = errors.New("storage: source not found")

// SourceRecord 数据源配置的持久化形式；采集时读出快照，不在采集过程中修改
type SourceRecord struct {
	ID        string                                  `gorm:"primaryKey;size:64" json:"id"`
	Name      string                                  `gorm:"size:128" json:"name"`
	URL       string                                  `gorm:"size:1024" json:"url"`
	Type      string                                  `gorm:"size:32" json:"type"`
	Category  string                                  `gorm:"size:64;index" json:"category"`
	Active    bool                                    `gorm:"index" json:"active"`
	Selectors datatypes.JSONType[collector.Selectors] `json:"selectors"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SourceRecord) TableName() string {
	return "sources"
}

func recordFromSource(src collector.Source) SourceRecord {
	return SourceRecord{
		ID:        src.ID,
		Name:      src.Name,
		URL:       src.URL,
		Type:      src.Type,
		Category:  src.Category,
		Active:    src.Active,
		Selectors: datatypes.NewJSONType(src.Selectors),
	}
}

func (r SourceRecord) Source() collector.Source {
	return collector.Source{
		ID:        r.ID,
		Name:      r.Name,
		URL:       r.URL,
		Type:      r.Type,
		Category:  r.Category,
		Active:    r.Active,
		Selectors: r.Selectors.Data(),
	}
}

// SeedSources 写入尚不存在的源；已存在的保持不变（包括启用状态）
func (s *Store) SeedSources(sources []collector.Source) error {
	for _, src := range sources {
		rec := recordFromSource(src)
		if err := s.DB.Where("id = ?", src.ID).FirstOrCreate(&rec).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListSources 按创建顺序返回源
func (s *Store) ListSources(activeOnly bool) ([]collector.Source, error) {
	var recs []SourceRecord
	db := s.DB.Order("created_at ASC").Order("id ASC")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	if err := db.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]collector.Source, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Source())
	}
	return out, nil
}

func (s *Store) SetSourceActive(id string, active bool) error {
	res := s.DB.Model(&SourceRecord{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSourceNotFound
	}
	return nil
}

// GetSource 查询单个源
func (s *Store) GetSource(id string) (collector.Source, error) {
	var rec SourceRecord
	if err := s.DB.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return collector.Source{}, ErrSourceNotFound
		}
		return collector.Source{}, err
	}
	return rec.Source(), nil
}
