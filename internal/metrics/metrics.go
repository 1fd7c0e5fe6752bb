package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesProcessed int64
	EventsExtracted   int64
	FilteredOut       int64
	FallbackRecords   int64
	ModelErrors       int64
	BatchesProcessed  int64
	BatchesFailed     int64
	DigestsWritten    int64

	// Timings
	LastRunDuration  time.Duration
	TotalRunDuration time.Duration
	RunCount         int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementArticlesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesProcessed++
}

func (m *Metrics) IncrementEventsExtracted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventsExtracted++
}

func (m *Metrics) IncrementFilteredOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FilteredOut++
}

func (m *Metrics) IncrementFallbackRecords() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackRecords++
}

func (m *Metrics) IncrementModelErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ModelErrors++
}

func (m *Metrics) IncrementBatchesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchesProcessed++
}

func (m *Metrics) IncrementBatchesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchesFailed++
}

func (m *Metrics) IncrementDigestsWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsWritten++
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.RunCount++
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
		"articles_processed":   m.ArticlesProcessed,
		"events_extracted":     m.EventsExtracted,
		"filtered_out":         m.FilteredOut,
		"fallback_records":     m.FallbackRecords,
		"model_errors":         m.ModelErrors,
		"batches_processed":    m.BatchesProcessed,
		"batches_failed":       m.BatchesFailed,
		"digests_written":      m.DigestsWritten,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
