package schedule

import (
	"fmt"
	"time"
)

// Two date-key formats coexist in stored doctor documents: booked slots use
// the legacy "D_M_YYYY" key (no zero padding), working schedules use ISO
// "YYYY-MM-DD". Conversions live here so nothing else hand-rolls them.

const isoLayout = "2006-01-02"

// SlotDateKey renders the legacy booked-slots key for a day, e.g. "10_3_2025".
func SlotDateKey(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// ParseSlotDateKey parses a legacy "D_M_YYYY" key back into a date.
func ParseSlotDateKey(key string) (time.Time, error) {
	var day, month, year int
	if _, err := fmt.Sscanf(key, "%d_%d_%d", &day, &month, &year); err != nil {
		return time.Time{}, fmt.Errorf("invalid slot date key %q: %w", key, err)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("invalid slot date key %q", key)
	}
	return t, nil
}

// ISODateKey renders the working-schedule key for a day, e.g. "2025-03-10".
func ISODateKey(t time.Time) string {
	return t.Format(isoLayout)
}

// ParseISODate parses a working-schedule date key.
func ParseISODate(key string) (time.Time, error) {
	t, err := time.ParseInLocation(isoLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", key, err)
	}
	return t, nil
}

// midnight truncates a time to the start of its day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
