// Package news holds the Article model and the feed entry filter.
package news

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/femfounders/feed/internal/config"
	"github.com/femfounders/feed/internal/match"
)

// Article is the exported record. The JSON field names are the contract
// with the static front end and must not change.
type Article struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Summary   string `json:"summary"`
	Published string `json:"published"`
	Source    string `json:"source"`
}

// SkipReason says why a feed entry was dropped.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipMissingFields SkipReason = "missing title or link"
	SkipTooOld        SkipReason = "too old"
	SkipExcluded      SkipReason = "excluded keyword"
	SkipLowScore      SkipReason = "score below threshold"
	SkipNoGenderMatch SkipReason = "no gender keyword match"
)

// Digest derives the dedup identity from link and title.
func Digest(link, title string) string {
	h := sha256.New()
	h.Write([]byte(link + "|" + title))
	return hex.EncodeToString(h.Sum(nil))
}

// StripHTML reduces an HTML fragment to plain text with single spaces.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// FormatTime renders a timestamp the way the artifact carries it.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// ResolveTimestamp picks the entry's publish time from the parsed published
// or updated fields. The second return is false when neither field was
// usable and the time is just "now", so callers can tell a genuinely dated
// entry from an assumed one.
func ResolveTimestamp(item *gofeed.Item, now time.Time) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed, true
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed, true
	}
	return now, false
}

// Extractor turns raw feed entries into Articles under the configured
// filter rules. Now is fixed per run so the age cutoff is stable.
type Extractor struct {
	Matchers match.Set
	Weights  config.Weights
	MinScore int
	MaxAge   time.Duration
	Curated  bool
	Now      time.Time
}

// NewExtractor builds an Extractor from the run configuration.
func NewExtractor(cfg *config.Config, matchers match.Set, now time.Time) *Extractor {
	return &Extractor{
		Matchers: matchers,
		Weights:  cfg.Weights,
		MinScore: cfg.MinScore,
		MaxAge:   time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		Curated:  cfg.CuratedMode,
		Now:      now,
	}
}

// Entry applies the per-entry gates in order: required fields, age cutoff,
// exclusion, then (unless curated) score and the gender gate. source is the
// already-resolved origin label for the owning feed.
func (e *Extractor) Entry(item *gofeed.Item, source string) (Article, SkipReason) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return Article{}, SkipMissingFields
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	summary = StripHTML(summary)

	published, _ := ResolveTimestamp(item, e.Now)
	if published.Before(e.Now.Add(-e.MaxAge)) {
		return Article{}, SkipTooOld
	}

	if e.Matchers.Excluded(title, summary) {
		return Article{}, SkipExcluded
	}

	if !e.Curated {
		if score := e.Matchers.Score(title, summary, e.Weights); score < e.MinScore {
			return Article{}, SkipLowScore
		}
		if !e.Matchers.GenderMatch(title, summary) {
			return Article{}, SkipNoGenderMatch
		}
	}

	return Article{
		Title:     title,
		Link:      link,
		Summary:   summary,
		Published: FormatTime(published),
		Source:    source,
	}, SkipNone
}

// SourceLabel resolves the feed's origin label: declared title, else
// declared link, else the URL the feed was requested from.
func SourceLabel(feed *gofeed.Feed, feedURL string) string {
	if feed == nil {
		return feedURL
	}
	if t := strings.TrimSpace(feed.Title); t != "" {
		return t
	}
	if l := strings.TrimSpace(feed.Link); l != "" {
		return l
	}
	return feedURL
}
