package syncer

import (
	"errors"
	"fmt"
	"time"

	"stryd-activity-sync/internal/stryd"
)

// ErrInvalidDate is returned for selector dates that don't parse. It
// surfaces before any network or storage work.
var ErrInvalidDate = errors.New("invalid date, expected YYYYMMDD")

// Mode selects how a sync run bounds its activity range
type Mode int

const (
	// LastNDays keeps activities with timestamp >= now - n days
	LastNDays Mode = iota
	// SingleDay keeps activities within one local calendar day, inclusive
	SingleDay
)

// Selector is the range predicate for a sync run
type Selector struct {
	Mode Mode
	Days int
	Date time.Time
}

// ParseDate validates a YYYYMMDD date string in local time
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("20060102", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Select returns the summaries in scope for the selector. Empty input or no
// matches yields an empty result, not an error.
func Select(activities []stryd.ActivitySummary, sel Selector, now time.Time) []stryd.ActivitySummary {
	var filtered []stryd.ActivitySummary

	switch sel.Mode {
	case SingleDay:
		// Wall-clock bounds, not start+24h: on DST transition days the
		// calendar day is not 24 hours long.
		dayStart := time.Date(sel.Date.Year(), sel.Date.Month(), sel.Date.Day(), 0, 0, 0, 0, time.Local)
		dayEnd := time.Date(sel.Date.Year(), sel.Date.Month(), sel.Date.Day(), 23, 59, 59, 999999000, time.Local)
		startTS := dayStart.Unix()
		endTS := dayEnd.Unix()
		for _, a := range activities {
			if a.Timestamp >= startTS && a.Timestamp <= endTS {
				filtered = append(filtered, a)
			}
		}
	case LastNDays:
		cutoff := now.AddDate(0, 0, -sel.Days).Unix()
		for _, a := range activities {
			if a.Timestamp >= cutoff {
				filtered = append(filtered, a)
			}
		}
	}

	return filtered
}
