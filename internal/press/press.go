// Package press extracts article links from HTML press pages.
package press

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/femfounders/feed/internal/config"
	"github.com/femfounders/feed/internal/metrics"
	"github.com/femfounders/feed/internal/news"
)

const (
	fetchTimeout = 20 * time.Second
	minTextLen   = 6
	userAgent    = "ffnews/1.0 (+https://github.com/femfounders/feed)"
)

// noiseMarkers flag syndication endpoints and non-article schemes.
var noiseMarkers = []string{"mailto:", "tel:", "/feed", "/rss", "format=rss", "/syndication"}

// Harvester fetches press pages and turns their links into Articles.
// Now is fixed per run so synthetic timestamps are reproducible.
type Harvester struct {
	client *resty.Client
	now    time.Time
}

func NewHarvester(now time.Time) *Harvester {
	return &Harvester{
		client: resty.New().
			SetTimeout(fetchTimeout).
			SetHeader("User-Agent", userAgent),
		now: now,
	}
}

// Harvest fetches one press page and returns its article links in page
// order. Any fetch or parse failure is logged and yields an empty list;
// a broken press page never aborts the run.
func (h *Harvester) Harvest(page config.PressPage) []news.Article {
	resp, err := h.client.R().Get(page.URL)
	if err != nil {
		slog.Warn("failed to fetch press page", "url", page.URL, "error", err)
		metrics.Global.IncrementPressPagesFailed()
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		slog.Warn("press page returned non-OK status", "url", page.URL, "status", resp.StatusCode())
		metrics.Global.IncrementPressPagesFailed()
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		slog.Warn("failed to parse press page", "url", page.URL, "error", err)
		metrics.Global.IncrementPressPagesFailed()
		return nil
	}

	articles := h.Extract(doc, page)
	metrics.Global.IncrementPressPagesOK()
	metrics.Global.AddPressLinksKept(len(articles))
	slog.Info("harvested press page", "url", page.URL, "items", len(articles))
	return articles
}

// Extract walks the document's anchors and applies the link heuristics.
// Split from Harvest so it can run against canned HTML.
func (h *Harvester) Extract(doc *goquery.Document, page config.PressPage) []news.Article {
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil
	}

	var includeRe, excludeRe *regexp.Regexp
	if page.HrefInclude != "" {
		includeRe, err = regexp.Compile(page.HrefInclude)
		if err != nil {
			slog.Warn("invalid href_include pattern", "url", page.URL, "error", err)
			return nil
		}
	}
	if page.HrefExclude != "" {
		excludeRe, err = regexp.Compile(page.HrefExclude)
		if err != nil {
			slog.Warn("invalid href_exclude pattern", "url", page.URL, "error", err)
			return nil
		}
	}

	type candidate struct {
		link string
		text string
	}
	var kept []candidate
	seen := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if len(kept) >= page.MaxItems {
			return
		}

		href, ok := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		link := resolved.String()
		text := strings.Join(strings.Fields(sel.Text()), " ")

		if stripWWW(resolved.Host) != stripWWW(page.Domain) {
			return
		}
		lower := strings.ToLower(link)
		for _, marker := range noiseMarkers {
			if strings.Contains(lower, marker) {
				return
			}
		}
		if strings.HasSuffix(strings.ToLower(resolved.Path), ".pdf") && !page.AllowPDF {
			return
		}
		if utf8.RuneCountInString(text) < minTextLen {
			return
		}
		if includeRe != nil {
			if !includeRe.MatchString(resolved.Path) {
				return
			}
		} else if !sharesPath(resolved.Path, base.Path) {
			// Press index pages link to detail pages under the same path.
			return
		}
		if excludeRe != nil && excludeRe.MatchString(resolved.Path) {
			return
		}

		key := link + "|" + text
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		kept = append(kept, candidate{link: link, text: text})
	})

	// The page is assumed to list newest first; descending synthetic
	// timestamps keep that order through the global sort. They are
	// ordering aids, not real publish times.
	articles := make([]news.Article, 0, len(kept))
	for i, c := range kept {
		articles = append(articles, news.Article{
			Title:     c.text,
			Link:      c.link,
			Summary:   "",
			Published: news.FormatTime(h.now.Add(-time.Duration(i) * time.Minute)),
			Source:    page.Domain,
		})
	}
	return articles
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// sharesPath reports whether a candidate path sits under, or at least
// mentions, the index page's own path.
func sharesPath(path, basePath string) bool {
	if basePath == "" || basePath == "/" {
		return true
	}
	return strings.HasPrefix(path, basePath) || strings.Contains(path, basePath)
}
