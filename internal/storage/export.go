// Package storage writes the exported news artifact.
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/femfounders/feed/internal/news"
)

// WriteArticles serializes articles as an indented UTF-8 JSON array and
// fully overwrites path. An empty run still writes "[]" so the front end
// always finds a valid document.
func WriteArticles(path string, articles []news.Article) error {
	if articles == nil {
		articles = []news.Article{}
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal articles: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
