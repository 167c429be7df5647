package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/LJTian/NewsHub/internal/collector"
	"gopkg.in/yaml.v3"
)

// sourcesFile YAML 文件结构：
//
//	sources:
//	  - id: ai-news
//	    name: AI News
//	    url: https://artificialintelligence-news.com/
//	    category: Industry
//	    active: true
//	    selectors:
//	      title: h2.entry-title
type sourcesFile struct {
	Sources []collector.Source `yaml:"sources"`
}

// DefaultSources 内置的默认数据源
func DefaultSources() []collector.Source {
	return []collector.Source{
		{
			ID:       "ai-news",
			Name:     "AI News",
			URL:      "https://artificialintelligence-news.com/",
			Type:     "website",
			Category: "Industry",
			Active:   true,
			Selectors: collector.Selectors{
				Title:       "h2.entry-title",
				Description: ".entry-content p:first-of-type",
				Date:        ".posted-on time",
				Image:       ".post-thumbnail img",
			},
		},
		{
			ID:       "deepmind",
			Name:     "DeepMind Blog",
			URL:      "https://deepmind.google/blog/",
			Type:     "website",
			Category: "Research",
			Active:   true,
			Selectors: collector.Selectors{
				Title:       "h2.blog-card__title",
				Description: ".blog-card__description",
				Date:        ".blog-card__date",
				Image:       ".blog-card__image img",
			},
		},
		{
			ID:       "openai",
			Name:     "OpenAI Blog",
			URL:      "https://openai.com/blog",
			Type:     "website",
			Category: "Research",
			Active:   true,
			Selectors: collector.Selectors{
				Title:       "h2",
				Description: ".prose p:first-of-type",
				Date:        "time",
				Image:       "img",
			},
		},
	}
}

// LoadSources 读取 YAML 源列表；path 为空时返回默认源
func LoadSources(path string) ([]collector.Source, error) {
	if path == "" {
		return DefaultSources(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	for i := range f.Sources {
		if f.Sources[i].Type == "" {
			f.Sources[i].Type = "website"
		}
	}
	if err := ValidateSources(f.Sources); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}
	return f.Sources, nil
}

func ValidateSources(sources []collector.Source) error {
	seen := make(map[string]struct{}, len(sources))
	var errs []error
	for i, s := range sources {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("source %d: id is required", i))
			continue
		}
		if _, ok := seen[s.ID]; ok {
			errs = append(errs, fmt.Errorf("source %s: duplicate id", s.ID))
		}
		seen[s.ID] = struct{}{}

		if s.Name == "" {
			errs = append(errs, fmt.Errorf("source %s: name is required", s.ID))
		}
		u, err := url.Parse(s.URL)
		if s.URL == "" || err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("source %s: invalid url %q", s.ID, s.URL))
		}
		if s.Selectors.Title == "" && s.Active {
			errs = append(errs, fmt.Errorf("source %s: title selector is required", s.ID))
		}
	}
	return errors.Join(errs...)
}
