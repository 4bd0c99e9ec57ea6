package schedule

import (
	"fmt"

	"time"

	"github.com/clinibook/clinic-api/internal/models"
)

// RequestWindowDays bounds how far ahead a schedule request may reach,
// inclusive of today.
const RequestWindowDays = 15

// AllowedTimes is the fixed vocabulary of schedulable times. Anything else
// fails the whole submission.
var AllowedTimes = []string{
	"08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// Room numbers in use at the clinic.
const (
	MinRoom = 1
	MaxRoom = 3
)

// ValidateRequest checks a proposed working schedule in full: every date key
// must be a real calendar date within [today, today+15], every entry time
// must come from AllowedTimes and every room from the known range. One bad
// entry rejects the entire submission; there is no partial application.
func ValidateRequest(req map[string][]models.ScheduleEntry, today time.Time) error {
	if len(req) == 0 {
		return fmt.Errorf("schedule request is empty")
	}

	start := midnight(today)
	end := start.AddDate(0, 0, RequestWindowDays)

	for dateStr, entries := range req {
		date, err := ParseISODate(dateStr)
		if err != nil {
			return err
		}
		if date.Before(start) || date.After(end) {
			return fmt.Errorf("date %s is out of the allowed %d-day range", dateStr, RequestWindowDays)
		}
		for _, entry := range entries {
			if entry.Time == "" {
				return fmt.Errorf("missing time slot on %s", dateStr)
			}
			if !contains(AllowedTimes, entry.Time) {
				return fmt.Errorf("invalid time slot %s on %s", entry.Time, dateStr)
			}
			if entry.Room < MinRoom || entry.Room > MaxRoom {
				return fmt.Errorf("invalid room %d on %s", entry.Room, dateStr)
			}
		}
	}
	return nil
}
