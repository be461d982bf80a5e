package news

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// KST is the zone all publication times are compared in.
var KST = mustLoadKST()

func mustLoadKST() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// WindowPolicy decides which articles fall inside a run's time window and
// whether the run is deduplicated against earlier runs.
type WindowPolicy interface {
	Contains(pubDate string) bool
	SeedsHistory() bool
	Label() string
}

// ParsePubDate parses an RFC 1123 publication date such as
// "Sun, 16 Nov 2025 10:00:00 +0900", falling back to a lenient parser.
func ParsePubDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC1123Z, s); err == nil {
		return t.In(KST), nil
	}
	if t, err := time.Parse(time.RFC1123, s); err == nil {
		return t.In(KST), nil
	}
	t, err := dateparse.ParseIn(s, KST)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable pubDate %q: %w", s, err)
	}
	return t.In(KST), nil
}

// RollingHours keeps articles published within the last Hours hours.
// Articles with an unparsable date are kept, so format drift does not
// silently drop news.
type RollingHours struct {
	Hours int
	Now   func() time.Time
}

func (r RollingHours) now() time.Time {
	if r.Now != nil {
		return r.Now().In(KST)
	}
	return time.Now().In(KST)
}

func (r RollingHours) Contains(pubDate string) bool {
	t, err := ParsePubDate(pubDate)
	if err != nil {
		return true
	}
	return r.now().Sub(t) <= time.Duration(r.Hours)*time.Hour
}

func (r RollingHours) SeedsHistory() bool { return true }

func (r RollingHours) Label() string {
	return fmt.Sprintf("최근 %d시간", r.Hours)
}

// FixedCalendarDay keeps articles published on one calendar day in KST.
// Articles with an unparsable date are dropped, since the report must be
// date-exact.
type FixedCalendarDay struct {
	Day time.Time
}

// Yesterday returns the calendar day before now, in KST.
func Yesterday(now time.Time) FixedCalendarDay {
	return FixedCalendarDay{Day: now.In(KST).AddDate(0, 0, -1)}
}

// Bounds returns the first and last instant of the day.
func (f FixedCalendarDay) Bounds() (time.Time, time.Time) {
	d := f.Day.In(KST)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, KST)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999999, KST)
	return start, end
}

func (f FixedCalendarDay) Contains(pubDate string) bool {
	t, err := ParsePubDate(pubDate)
	if err != nil {
		return false
	}
	start, end := f.Bounds()
	return !t.Before(start) && !t.After(end)
}

func (f FixedCalendarDay) SeedsHistory() bool { return false }

func (f FixedCalendarDay) Label() string {
	return f.Date() + " (전일)"
}

// Date returns the day as YYYY-MM-DD.
func (f FixedCalendarDay) Date() string {
	return f.Day.In(KST).Format("2006-01-02")
}
