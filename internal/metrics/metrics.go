package metrics

import (
	"sync"
	"time"
)

// Metrics collects run counters for the monitoring endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Source counters
	FeedsFetched     int64
	FeedsFailed      int64
	PressPagesOK     int64
	PressPagesFailed int64

	// Item counters
	ItemsProcessed     int64
	ItemsTooOld        int64
	ItemsExcluded      int64
	ItemsLowScore      int64
	ItemsNoGenderMatch int64
	DuplicatesFiltered int64
	PressLinksKept     int64
	ItemsExported      int64

	// Timings
	LastProcessingTime time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementFeedsFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
}

func (m *Metrics) IncrementFeedsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFailed++
}

func (m *Metrics) IncrementPressPagesOK() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PressPagesOK++
}

func (m *Metrics) IncrementPressPagesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PressPagesFailed++
}

func (m *Metrics) IncrementItemsProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsProcessed++
}

func (m *Metrics) IncrementItemsTooOld() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsTooOld++
}

func (m *Metrics) IncrementItemsExcluded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsExcluded++
}

func (m *Metrics) IncrementItemsLowScore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsLowScore++
}

func (m *Metrics) IncrementItemsNoGenderMatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsNoGenderMatch++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) AddPressLinksKept(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PressLinksKept += int64(n)
}

func (m *Metrics) SetItemsExported(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsExported = int64(n)
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastProcessingTime = duration
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":             m.FeedsFetched,
		"feeds_failed":              m.FeedsFailed,
		"press_pages_ok":            m.PressPagesOK,
		"press_pages_failed":        m.PressPagesFailed,
		"items_processed":           m.ItemsProcessed,
		"items_too_old":             m.ItemsTooOld,
		"items_excluded":            m.ItemsExcluded,
		"items_low_score":           m.ItemsLowScore,
		"items_no_gender_match":     m.ItemsNoGenderMatch,
		"duplicates_filtered":       m.DuplicatesFiltered,
		"press_links_kept":          m.PressLinksKept,
		"items_exported":            m.ItemsExported,
		"last_processing_time_ms":   m.LastProcessingTime.Milliseconds(),
		"last_run_time":             m.LastRunTime.Format(time.RFC3339),
		"last_error_time":           m.LastErrorTime.Format(time.RFC3339),
		"last_error":                m.LastError,
		"is_healthy":                m.IsHealthy,
	}
}
