package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordDigest(t *testing.T) {
	m := &Metrics{IsHealthy: true}

	m.AddFetched(12)
	m.RecordDigest(8, 5, 3)
	m.RecordProcessingTime(2 * time.Second)
	m.RecordProcessingTime(4 * time.Second)
	m.SetLastRun("rolling")

	stats := m.GetStats()
	assert.Equal(t, int64(12), stats["articles_fetched"])
	assert.Equal(t, int64(5), stats["articles_accepted"])
	assert.Equal(t, int64(3), stats["duplicates_filtered"])
	assert.Equal(t, int64(3), stats["groups_formed"])
	assert.Equal(t, int64(3000), stats["average_processing_time_ms"])
	assert.Equal(t, "rolling", stats["last_mode"])
}

func TestMetrics_ErrorThenRecovery(t *testing.T) {
	m := &Metrics{IsHealthy: true}

	m.SetError("search failed")
	assert.False(t, m.Healthy())
	assert.Equal(t, "search failed", m.GetStats()["last_error"])

	m.SetLastRun("daily")
	assert.True(t, m.Healthy())
}
