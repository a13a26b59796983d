// Package match compiles the keyword categories and scores articles.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/femfounders/feed/internal/config"
)

// Matcher is one compiled case-insensitive keyword alternation. A nil
// Matcher never matches, which is exactly how an unconfigured category
// is supposed to behave.
type Matcher struct {
	re *regexp.Regexp
}

// New compiles terms into a Matcher. Blank terms are dropped; if nothing
// remains the returned Matcher is nil. Terms are treated as regular
// expression fragments, so plain words work as substrings and patterns
// like `founder(s)?` stay available.
func New(terms []string) (*Matcher, error) {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	re, err := regexp.Compile("(?i)(" + strings.Join(cleaned, "|") + ")")
	if err != nil {
		return nil, fmt.Errorf("compile keywords: %w", err)
	}
	return &Matcher{re: re}, nil
}

// Match reports whether any term occurs in text. Nil-safe.
func (m *Matcher) Match(text string) bool {
	if m == nil {
		return false
	}
	return m.re.MatchString(text)
}

// Set holds the four category matchers. Any of them may be nil.
type Set struct {
	Gender   *Matcher
	Startup  *Matcher
	Business *Matcher
	Exclude  *Matcher
}

// Compile builds the matcher set from the configured keyword lists.
func Compile(cfg *config.Config) (Set, error) {
	var s Set
	var err error

	if s.Gender, err = New(cfg.KeywordsGender); err != nil {
		return Set{}, fmt.Errorf("keywords_gender: %w", err)
	}
	if s.Startup, err = New(cfg.KeywordsStartup); err != nil {
		return Set{}, fmt.Errorf("keywords_startup: %w", err)
	}
	if s.Business, err = New(cfg.KeywordsBusiness); err != nil {
		return Set{}, fmt.Errorf("keywords_business: %w", err)
	}
	if s.Exclude, err = New(cfg.ExcludeKeywords); err != nil {
		return Set{}, fmt.Errorf("exclude_keywords: %w", err)
	}
	return s, nil
}

// Haystack joins title and summary the way every matcher sees them.
func Haystack(title, summary string) string {
	return title + "\n" + summary
}

// Score computes the weighted relevance of an article. Each matching
// category adds its weight; a category that also matches the title alone
// adds the title bonus once more, so three title hits can earn the bonus
// three times.
func (s Set) Score(title, summary string, w config.Weights) int {
	hay := Haystack(title, summary)
	score := 0

	for _, c := range []struct {
		m      *Matcher
		weight int
	}{
		{s.Gender, w.Gender},
		{s.Startup, w.Startup},
		{s.Business, w.Business},
	} {
		if !c.m.Match(hay) {
			continue
		}
		score += c.weight
		if c.m.Match(title) {
			score += w.TitleBonus
		}
	}
	return score
}

// Excluded reports whether the exclude category matches title+summary.
// Checked before scoring; an excluded article is dropped regardless of score.
func (s Set) Excluded(title, summary string) bool {
	return s.Exclude.Match(Haystack(title, summary))
}

// GenderMatch reports whether the gender category matches title+summary.
// In non-curated mode this is a mandatory gate independent of the score.
func (s Set) GenderMatch(title, summary string) bool {
	return s.Gender.Match(Haystack(title, summary))
}
