// Package biztime keeps storage in UTC and converts to the configured
// business timezone only for display and scheduling.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. An empty tz selects UTC.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, UTC until Init runs.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToBizTimezone is for display only.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// FormatDisplay renders t in the business timezone, or "-" for the zero time.
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return ToBizTimezone(t).Format("2006-01-02 15:04")
}

// UnixMilli converts t to milliseconds, keeping nil as zero.
func UnixMilli(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMilli is the inverse of UnixMilli; zero yields nil.
func FromUnixMilli(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
