package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	Runs                 int64
	ArticlesFetched      int64
	ArticlesAccepted     int64
	DuplicatesFiltered   int64
	GroupsFormed         int64
	SearchErrors         int64
	ReportsWritten       int64
	TelegramMessagesSent int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastMode      string
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementSearchErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchErrors++
}

// RecordDigest counts one finished pipeline pass: fetched articles that
// survived filtering, what was accepted and how many groups were formed.
func (m *Metrics) RecordDigest(candidates, accepted, groups int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesAccepted += int64(accepted)
	m.DuplicatesFiltered += int64(candidates - accepted)
	m.GroupsFormed += int64(groups)
}

func (m *Metrics) IncrementReportsWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportsWritten++
}

func (m *Metrics) IncrementTelegramMessagesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TelegramMessagesSent++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs++
	m.LastMode = mode
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

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs":                       m.Runs,
		"articles_fetched":           m.ArticlesFetched,
		"articles_accepted":          m.ArticlesAccepted,
		"duplicates_filtered":        m.DuplicatesFiltered,
		"groups_formed":              m.GroupsFormed,
		"search_errors":              m.SearchErrors,
		"reports_written":            m.ReportsWritten,
		"telegram_messages_sent":     m.TelegramMessagesSent,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_mode":                  m.LastMode,
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
