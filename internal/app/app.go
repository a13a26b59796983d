// Package app drives the aggregation pipeline.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/femfounders/feed/internal/config"
	"github.com/femfounders/feed/internal/match"
	"github.com/femfounders/feed/internal/metrics"
	"github.com/femfounders/feed/internal/news"
	"github.com/femfounders/feed/internal/press"
	"github.com/femfounders/feed/internal/rss"
	"github.com/femfounders/feed/internal/storage"
)

// Run executes one aggregation pass: fetch feeds and press pages, filter
// and score, dedup, sort, truncate, export. Per-source failures are logged
// and skipped; only config or export failures return an error.
func Run(ctx context.Context, cfg *config.Config) error {
	startTime := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(startTime))
		metrics.Global.SetLastRun()
	}()

	if len(cfg.Feeds) == 0 {
		slog.Warn("no feeds configured")
	}
	if len(cfg.KeywordsGender) == 0 || len(cfg.KeywordsStartup) == 0 {
		slog.Warn("missing keywords_gender or keywords_startup; matching will be degraded")
	}

	matchers, err := match.Compile(cfg)
	if err != nil {
		return fmt.Errorf("compile keyword matchers: %w", err)
	}

	// One fixed "now" keeps the age cutoff and synthetic timestamps
	// stable across the whole run.
	now := time.Now()
	extractor := news.NewExtractor(cfg, matchers, now)

	seen := map[string]struct{}{}
	articles := collectFeedArticles(rss.FetchAll(ctx, cfg.Feeds), extractor, seen)

	harvester := press.NewHarvester(now)
	for _, page := range cfg.PressPages {
		articles = append(articles, filterPressArticles(harvester.Harvest(page), matchers, seen)...)
	}

	news.SortByPublished(articles)
	articles = news.Truncate(articles, cfg.ExportLimit)

	if err := storage.WriteArticles(cfg.OutputPath, articles); err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	metrics.Global.SetItemsExported(len(articles))
	slog.Info("wrote news artifact", "items", len(articles), "path", cfg.OutputPath)
	return nil
}

// collectFeedArticles runs the extractor over every entry of every fetched
// feed. seen holds link|title digests; the first occurrence wins.
func collectFeedArticles(fetched []rss.Fetched, extractor *news.Extractor, seen map[string]struct{}) []news.Article {
	var articles []news.Article

	for _, f := range fetched {
		source := news.SourceLabel(f.Feed, f.URL)
		for _, item := range f.Feed.Items {
			metrics.Global.IncrementItemsProcessed()

			article, reason := extractor.Entry(item, source)
			if reason != news.SkipNone {
				countSkip(reason)
				slog.Debug("skipped entry", "reason", string(reason), "title", item.Title, "source", source)
				continue
			}

			id := news.Digest(article.Link, article.Title)
			if _, dup := seen[id]; dup {
				metrics.Global.IncrementDuplicatesFiltered()
				continue
			}
			seen[id] = struct{}{}
			articles = append(articles, article)
		}
	}
	return articles
}

// filterPressArticles applies the gates press items are still subject to.
// They trust their source list, so scoring and the gender gate are skipped,
// but the exclusion gate and global dedup both apply.
func filterPressArticles(items []news.Article, matchers match.Set, seen map[string]struct{}) []news.Article {
	var kept []news.Article

	for _, article := range items {
		if matchers.Excluded(article.Title, article.Summary) {
			metrics.Global.IncrementItemsExcluded()
			slog.Debug("skipped press item", "reason", "excluded keyword", "title", article.Title)
			continue
		}
		id := news.Digest(article.Link, article.Title)
		if _, dup := seen[id]; dup {
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, article)
	}
	return kept
}

func countSkip(reason news.SkipReason) {
	switch reason {
	case news.SkipTooOld:
		metrics.Global.IncrementItemsTooOld()
	case news.SkipExcluded:
		metrics.Global.IncrementItemsExcluded()
	case news.SkipLowScore:
		metrics.Global.IncrementItemsLowScore()
	case news.SkipNoGenderMatch:
		metrics.Global.IncrementItemsNoGenderMatch()
	}
}
