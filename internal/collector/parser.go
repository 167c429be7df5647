package collector

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// block 一个条目容器以及其中的标题节点
type block struct {
	root  *goquery.Selection
	title *goquery.Selection
}

// ParseDocument 按选择器从页面中抽取候选条目，保持文档顺序。
// 选择器未命中只会导致对应字段为空，不会让整个解析失败
func ParseDocument(document string, sel Selectors) ([]Draft, error) {
	return ParseDocumentAt(document, "", sel)
}

// ParseDocumentAt 同 ParseDocument，相对链接/图片地址按 baseURL 补全
func ParseDocumentAt(document, baseURL string, sel Selectors) ([]Draft, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	var base *url.URL
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			base = u
		}
	}

	blocks := findBlocks(doc, sel)
	drafts := make([]Draft, 0, len(blocks))
	for _, b := range blocks {
		title := cleanText(b.title.Text())
		if title == "" {
			continue
		}

		d := Draft{Title: title}
		if s := lookup(b.root, sel.Description); s != nil {
			d.Description = cleanText(s.Text())
		}
		if s := lookup(b.root, sel.Date); s != nil {
			d.RawDate = dateText(s)
			d.PublishedAt = parseDate(d.RawDate)
		}
		if s := lookup(b.root, sel.Image); s != nil {
			d.ImageURL = resolveURL(base, imageSrc(s))
		}
		d.Link = resolveURL(base, linkHref(b, sel.Link))

		drafts = append(drafts, d)
	}

	return drafts, nil
}

func findBlocks(doc *goquery.Document, sel Selectors) []block {
	var blocks []block

	if sel.Container != "" {
		doc.Find(sel.Container).Each(func(_ int, root *goquery.Selection) {
			title := lookup(root, sel.Title)
			if title == nil {
				return
			}
			blocks = append(blocks, block{root: root, title: title})
		})
		return blocks
	}

	if sel.Title == "" {
		return nil
	}

	// 没有显式容器：从每个标题节点向上找，直到父节点包含不止一个标题为止
	doc.Find(sel.Title).Each(func(_ int, title *goquery.Selection) {
		root := title
		for {
			parent := root.Parent()
			if parent.Length() == 0 || parent.Find(sel.Title).Length() != 1 {
				break
			}
			root = parent
		}
		blocks = append(blocks, block{root: root, title: title})
	})
	return blocks
}

// lookup 在容器内查找第一个匹配；容器自身匹配时返回容器。未命中返回 nil
func lookup(root *goquery.Selection, selector string) *goquery.Selection {
	if selector == "" {
		return nil
	}
	if root.Is(selector) {
		return root
	}
	s := root.Find(selector).First()
	if s.Length() == 0 {
		return nil
	}
	return s
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dateText(s *goquery.Selection) string {
	for _, attr := range []string{"datetime", "content"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return cleanText(s.Text())
}

// parseDate 无法解析时返回零值
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func imageSrc(s *goquery.Selection) string {
	if goquery.NodeName(s) != "img" {
		if img := s.Find("img").First(); img.Length() > 0 {
			s = img
		}
	}
	for _, attr := range []string{"src", "data-src"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if v, ok := s.Attr("srcset"); ok {
		if fields := strings.Fields(v); len(fields) > 0 {
			return strings.TrimSuffix(fields[0], ",")
		}
	}
	return ""
}

func linkHref(b block, linkSelector string) string {
	if linkSelector != "" {
		if s := lookup(b.root, linkSelector); s != nil {
			return anchorHref(s)
		}
		return ""
	}

	if href := anchorHref(b.title); href != "" {
		return href
	}
	if a := b.title.Closest("a[href]"); a.Length() > 0 {
		return attrTrim(a, "href")
	}
	return attrTrim(b.root.Find("a[href]").First(), "href")
}

func anchorHref(s *goquery.Selection) string {
	if goquery.NodeName(s) == "a" {
		if href := attrTrim(s, "href"); href != "" {
			return href
		}
	}
	return attrTrim(s.Find("a[href]").First(), "href")
}

func attrTrim(s *goquery.Selection, attr string) string {
	v, _ := s.Attr(attr)
	return strings.TrimSpace(v)
}

func resolveURL(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
