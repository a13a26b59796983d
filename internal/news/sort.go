package news

import (
	"sort"
	"time"
)

// publishedTime parses an article's published string for ordering.
// Anything that fails to parse sorts as the oldest possible instant
// rather than being dropped.
func publishedTime(a Article) time.Time {
	t, err := time.Parse(time.RFC3339, a.Published)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// SortByPublished orders articles newest first. The published field is the
// sole ordering authority; arrival order does not matter.
func SortByPublished(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return publishedTime(articles[i]).After(publishedTime(articles[j]))
	})
}

// Truncate caps the collection at limit, keeping the head.
func Truncate(articles []Article, limit int) []Article {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
