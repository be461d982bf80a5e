package ratelimit

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DailyQuota caps the number of search API calls per day. The Naver
// search API allows 25,000 calls per application per day.
type DailyQuota struct {
	mu        sync.Mutex
	used      int
	max       int // 0 = unlimited
	resetTime time.Time
	now       func() time.Time
}

// NewDailyQuota creates a quota of max calls per 24 hours.
func NewDailyQuota(max int) *DailyQuota {
	return newDailyQuota(max, time.Now)
}

func newDailyQuota(max int, now func() time.Time) *DailyQuota {
	return &DailyQuota{
		max:       max,
		now:       now,
		resetTime: now().Add(24 * time.Hour),
	}
}

// Allow reports whether another call fits in the quota.
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.checkReset()

	if q.max > 0 && q.used >= q.max {
		log.Printf("⚠️ Search API quota reached (%d/%d)", q.used, q.max)
		return false
	}
	return true
}

// Use takes one call from the quota.
func (q *DailyQuota) Use() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.checkReset()

	if q.max > 0 && q.used >= q.max {
		return fmt.Errorf("search API quota exceeded (%d/%d)", q.used, q.max)
	}
	q.used++
	return nil
}

// GetStats returns the current usage.
func (q *DailyQuota) GetStats() map[string]interface{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	return map[string]interface{}{
		"used":       q.used,
		"limit":      q.max,
		"reset_time": q.resetTime,
	}
}

// checkReset starts a new window once the current one has passed.
func (q *DailyQuota) checkReset() {
	if q.now().After(q.resetTime) {
		log.Printf("🔄 Resetting search API quota (used %d/%d)", q.used, q.max)
		q.used = 0
		q.resetTime = q.now().Add(24 * time.Hour)
	}
}
