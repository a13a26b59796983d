package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/femfounders/feed/internal/config"
	"github.com/femfounders/feed/internal/match"
	"github.com/femfounders/feed/internal/news"
	"github.com/femfounders/feed/internal/rss"
)

var runNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		KeywordsGender:  []string{"woman"},
		KeywordsStartup: []string{"startup"},
		ExcludeKeywords: []string{"football"},
		Weights:         config.DefaultWeights(),
		MinScore:        2,
		ExportLimit:     200,
		MaxAgeDays:      120,
	}
}

func testPipeline(t *testing.T) (*news.Extractor, match.Set) {
	t.Helper()
	cfg := testConfig()
	matchers, err := match.Compile(cfg)
	if err != nil {
		t.Fatalf("compile matchers: %v", err)
	}
	return news.NewExtractor(cfg, matchers, runNow), matchers
}

func item(title, link string, published time.Time) *gofeed.Item {
	t := published
	return &gofeed.Item{Title: title, Link: link, PublishedParsed: &t}
}

func TestCollectFeedArticlesFirstOccurrenceWins(t *testing.T) {
	extractor, _ := testPipeline(t)

	fetched := []rss.Fetched{
		{
			URL:  "https://one.example/feed",
			Feed: &gofeed.Feed{Title: "Feed One", Items: []*gofeed.Item{item("Woman launches startup", "https://example.com/a", runNow)}},
		},
		{
			URL:  "https://two.example/feed",
			Feed: &gofeed.Feed{Title: "Feed Two", Items: []*gofeed.Item{item("Woman launches startup", "https://example.com/a", runNow)}},
		},
	}

	articles := collectFeedArticles(fetched, extractor, map[string]struct{}{})

	if len(articles) != 1 {
		t.Fatalf("expected 1 article after dedup, got %d", len(articles))
	}
	if articles[0].Source != "Feed One" {
		t.Errorf("first occurrence must win, got source %q", articles[0].Source)
	}
}

func TestCollectFeedArticlesAppliesGates(t *testing.T) {
	extractor, _ := testPipeline(t)

	fetched := []rss.Fetched{{
		URL: "https://one.example/feed",
		Feed: &gofeed.Feed{Title: "Feed One", Items: []*gofeed.Item{
			item("Woman launches startup", "https://example.com/keep", runNow),
			item("Woman joins football startup", "https://example.com/excluded", runNow),
			item("Woman launches startup again", "https://example.com/old", runNow.Add(-200*24*time.Hour)),
			item("Man launches startup", "https://example.com/nogender", runNow),
		}},
	}}

	articles := collectFeedArticles(fetched, extractor, map[string]struct{}{})

	if len(articles) != 1 {
		t.Fatalf("expected only the clean entry, got %d", len(articles))
	}
	if articles[0].Link != "https://example.com/keep" {
		t.Errorf("kept wrong article: %s", articles[0].Link)
	}
}

func TestFilterPressArticlesExclusionAndGlobalDedup(t *testing.T) {
	_, matchers := testPipeline(t)

	seen := map[string]struct{}{
		news.Digest("https://example.dk/presse/dup", "Already collected"): {},
	}
	items := []news.Article{
		{Title: "New fund for women founders", Link: "https://example.dk/presse/a"},
		{Title: "Football sponsorship news", Link: "https://example.dk/presse/b"},
		{Title: "Already collected", Link: "https://example.dk/presse/dup"},
		{Title: "Man opens bakery", Link: "https://example.dk/presse/c"},
	}

	kept := filterPressArticles(items, matchers, seen)

	// Press items bypass scoring and the gender gate: the bakery stays.
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept press items, got %d", len(kept))
	}
	if kept[0].Link != "https://example.dk/presse/a" || kept[1].Link != "https://example.dk/presse/c" {
		t.Errorf("unexpected kept set: %v", kept)
	}
}

func TestPipelineIsDeterministic(t *testing.T) {
	fetched := []rss.Fetched{{
		URL: "https://one.example/feed",
		Feed: &gofeed.Feed{Title: "Feed One", Items: []*gofeed.Item{
			item("Woman launches startup", "https://example.com/a", runNow.Add(-time.Hour)),
			item("Woman scales her startup", "https://example.com/b", runNow),
		}},
	}}

	render := func() []byte {
		extractor, _ := testPipeline(t)
		articles := collectFeedArticles(fetched, extractor, map[string]struct{}{})
		news.SortByPublished(articles)
		articles = news.Truncate(articles, 200)
		data, err := json.MarshalIndent(articles, "", "  ")
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}

	first := render()
	second := render()
	if string(first) != string(second) {
		t.Error("identical inputs with a fixed now must produce byte-identical output")
	}
}
