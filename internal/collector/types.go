package collector

import "time"

// Selectors 描述如何在一个源的页面中定位各字段；空字符串表示没有规则，对应字段留空
type Selectors struct {
	// Container 可选：条目容器；为空时由 Title 规则推断
	Container   string `yaml:"container,omitempty" json:"container,omitempty"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Date        string `yaml:"date,omitempty" json:"date,omitempty"`
	Image       string `yaml:"image,omitempty" json:"image,omitempty"`
	Link        string `yaml:"link,omitempty" json:"link,omitempty"`
}

// Source 一个可配置的外部站点及其抽取规则。一次采集中只读
type Source struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	URL       string    `yaml:"url" json:"url"`
	Type      string    `yaml:"type,omitempty" json:"type,omitempty"` // 目前只有 website
	Category  string    `yaml:"category" json:"category"`
	Active    bool      `yaml:"active" json:"active"`
	Selectors Selectors `yaml:"selectors" json:"selectors"`
}

// Draft 解析器产出的候选条目，尚未打上来源与影响力标记
type Draft struct {
	Title       string
	Description string
	// RawDate 保留页面上的原始日期文本，解析失败时 PublishedAt 为零值
	RawDate     string
	PublishedAt time.Time
	ImageURL    string
	Link        string
}

// Item 统一后的新闻条目，创建后不再修改
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"publishedAt"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Link         string    `json:"link,omitempty"`
	SourceID     string    `json:"sourceId"`
	Source       string    `json:"source"`
	Category     string    `json:"category"`
	GlobalImpact bool      `json:"isGlobalImpact"`
}
