// Package config loads the aggregator YAML config and applies defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "configs/aggregator.yaml"
	DefaultOutputPath = "news.json"

	defaultMinScore      = 2
	defaultExportLimit   = 200
	defaultMaxAgeDays    = 120
	defaultPressMaxItems = 30
)

// Weights are the per-category score contributions.
type Weights struct {
	Gender     int
	Startup    int
	Business   int
	TitleBonus int
}

// DefaultWeights returns the baseline weight table.
func DefaultWeights() Weights {
	return Weights{Gender: 2, Startup: 2, Business: 1, TitleBonus: 1}
}

// PressPage is one HTML press/news index page to harvest links from.
type PressPage struct {
	URL         string
	Domain      string
	MaxItems    int
	HrefInclude string
	HrefExclude string
	AllowPDF    bool
}

// Config is the fully resolved aggregator configuration.
type Config struct {
	Feeds            []string
	KeywordsGender   []string
	KeywordsStartup  []string
	KeywordsBusiness []string
	ExcludeKeywords  []string
	Weights          Weights
	MinScore         int
	ExportLimit      int
	MaxAgeDays       int
	CuratedMode      bool
	PressPages       []PressPage

	// OutputPath comes from the environment, not the YAML document.
	OutputPath string
}

// fileConfig mirrors the YAML document. Optional scalars are pointers so a
// configured zero can be told apart from an absent key.
type fileConfig struct {
	Feeds            []string        `yaml:"feeds"`
	KeywordsGender   []string        `yaml:"keywords_gender"`
	KeywordsStartup  []string        `yaml:"keywords_startup"`
	KeywordsBusiness []string        `yaml:"keywords_business"`
	ExcludeKeywords  []string        `yaml:"exclude_keywords"`
	Weights          map[string]int  `yaml:"weights"`
	MinScore         *int            `yaml:"min_score"`
	ExportLimit      *int            `yaml:"export_limit"`
	MaxAgeDays       *int            `yaml:"max_age_days"`
	CuratedMode      bool            `yaml:"curated_mode"`
	PressPages       []filePressPage `yaml:"press_pages"`
}

type filePressPage struct {
	URL         string `yaml:"url"`
	Domain      string `yaml:"domain"`
	MaxItems    *int   `yaml:"max_items"`
	HrefInclude string `yaml:"href_include"`
	HrefExclude string `yaml:"href_exclude"`
	AllowPDF    bool   `yaml:"allow_pdf"`
}

// Load reads the YAML config from path, applies defaults for every optional
// key and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var raw fileConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg := &Config{
		Feeds:            raw.Feeds,
		KeywordsGender:   raw.KeywordsGender,
		KeywordsStartup:  raw.KeywordsStartup,
		KeywordsBusiness: raw.KeywordsBusiness,
		ExcludeKeywords:  raw.ExcludeKeywords,
		Weights:          DefaultWeights(),
		MinScore:         defaultMinScore,
		ExportLimit:      defaultExportLimit,
		MaxAgeDays:       defaultMaxAgeDays,
		CuratedMode:      raw.CuratedMode,
		OutputPath:       getEnvOrDefault("FFNEWS_OUTPUT", DefaultOutputPath),
	}

	// A partial weights map falls back per key.
	if w, ok := raw.Weights["gender"]; ok {
		cfg.Weights.Gender = w
	}
	if w, ok := raw.Weights["startup"]; ok {
		cfg.Weights.Startup = w
	}
	if w, ok := raw.Weights["business"]; ok {
		cfg.Weights.Business = w
	}
	if w, ok := raw.Weights["title_bonus"]; ok {
		cfg.Weights.TitleBonus = w
	}

	if raw.MinScore != nil {
		cfg.MinScore = *raw.MinScore
	}
	if raw.ExportLimit != nil {
		cfg.ExportLimit = *raw.ExportLimit
	}
	if raw.MaxAgeDays != nil {
		cfg.MaxAgeDays = *raw.MaxAgeDays
	}

	for _, p := range raw.PressPages {
		page := PressPage{
			URL:         strings.TrimSpace(p.URL),
			Domain:      strings.TrimSpace(p.Domain),
			MaxItems:    defaultPressMaxItems,
			HrefInclude: p.HrefInclude,
			HrefExclude: p.HrefExclude,
			AllowPDF:    p.AllowPDF,
		}
		if p.MaxItems != nil {
			page.MaxItems = *p.MaxItems
		}
		if page.Domain == "" {
			page.Domain = domainOf(page.URL)
		}
		cfg.PressPages = append(cfg.PressPages, page)
	}

	return cfg, cfg.Validate()
}

// ConfigPath resolves the config file location from the environment.
func ConfigPath() string {
	return getEnvOrDefault("FFNEWS_CONFIG", DefaultConfigPath)
}

func (c *Config) Validate() error {
	if c.ExportLimit <= 0 {
		return fmt.Errorf("export_limit must be positive, got %d", c.ExportLimit)
	}
	if c.MaxAgeDays <= 0 {
		return fmt.Errorf("max_age_days must be positive, got %d", c.MaxAgeDays)
	}
	if c.MinScore < 0 {
		return fmt.Errorf("min_score must not be negative, got %d", c.MinScore)
	}
	for _, w := range []struct {
		name  string
		value int
	}{
		{"gender", c.Weights.Gender},
		{"startup", c.Weights.Startup},
		{"business", c.Weights.Business},
		{"title_bonus", c.Weights.TitleBonus},
	} {
		if w.value < 0 {
			return fmt.Errorf("weights.%s must not be negative, got %d", w.name, w.value)
		}
	}
	for i, p := range c.PressPages {
		if p.URL == "" {
			return fmt.Errorf("press_pages[%d]: url is required", i)
		}
		if _, err := url.Parse(p.URL); err != nil {
			return fmt.Errorf("press_pages[%d]: invalid url %q: %w", i, p.URL, err)
		}
		if p.MaxItems <= 0 {
			return fmt.Errorf("press_pages[%d]: max_items must be positive, got %d", i, p.MaxItems)
		}
		if p.HrefInclude != "" {
			if _, err := regexp.Compile(p.HrefInclude); err != nil {
				return fmt.Errorf("press_pages[%d]: invalid href_include: %w", i, err)
			}
		}
		if p.HrefExclude != "" {
			if _, err := regexp.Compile(p.HrefExclude); err != nil {
				return fmt.Errorf("press_pages[%d]: invalid href_exclude: %w", i, err)
			}
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
