// Package rss downloads and parses the configured feeds.
package rss

import (
	"context"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"github.com/femfounders/feed/internal/metrics"
)

// Fetched pairs a parsed feed with the URL it was requested from, so the
// request URL stays available as a source label fallback.
type Fetched struct {
	URL  string
	Feed *gofeed.Feed
}

// FetchAll downloads and parses every feed. A feed that fails to fetch or
// parse is logged and skipped; it never aborts the run.
func FetchAll(ctx context.Context, urls []string) []Fetched {
	parser := gofeed.NewParser()
	results := make([]Fetched, 0, len(urls))

	for _, url := range urls {
		feed, err := parser.ParseURLWithContext(url, ctx)
		if err != nil {
			slog.Warn("failed to fetch feed", "url", url, "error", err)
			metrics.Global.IncrementFeedsFailed()
			continue
		}
		results = append(results, Fetched{URL: url, Feed: feed})
		metrics.Global.IncrementFeedsFetched()
		slog.Info("loaded feed", "url", url, "items", len(feed.Items))
	}

	slog.Info("fetched feeds", "ok", len(results), "total", len(urls))
	return results
}
