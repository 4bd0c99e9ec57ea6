package schedule

import (
	"time"

	"github.com/clinibook/clinic-api/internal/models"
)

// Horizon is how many days ahead (including today) availability is computed.
const Horizon = 7

// Fallback template bounds for doctors without an approved schedule: hourly
// slots from 08:00 up to (not including) 19:00.
const (
	fallbackStartHour = 8
	fallbackEndHour   = 19
)

// Slot is one bookable (datetime, time-of-day) pair.
type Slot struct {
	Datetime time.Time `json:"datetime"`
	Time     string    `json:"time"`
}

// AvailableSlots computes the bookable slots for the next Horizon days,
// ordered by day. Day lists may be empty. The result depends only on the
// doctor document and now; callers own the clock.
//
// With an approved working schedule the slots come from it; otherwise the
// fixed hourly template applies, with today's first slot bumped past now.
// Times already present in the doctor's booked map are filtered out either
// way.
func AvailableSlots(doc models.Doctor, now time.Time) [][]Slot {
	if len(doc.WorkingSchedule) > 0 {
		return slotsFromSchedule(doc, now)
	}
	return slotsFromTemplate(doc, now)
}

func slotsFromSchedule(doc models.Doctor, now time.Time) [][]Slot {
	all := make([][]Slot, 0, Horizon)
	for i := 0; i < Horizon; i++ {
		day := midnight(now).AddDate(0, 0, i)
		booked := doc.SlotsBooked[SlotDateKey(day)]

		daySlots := []Slot{}
		for _, entry := range doc.WorkingSchedule[ISODateKey(day)] {
			t, err := time.Parse("15:04", entry.Time)
			if err != nil {
				// Malformed schedule data degrades to "no slot", not an error.
				continue
			}
			if contains(booked, entry.Time) {
				continue
			}
			daySlots = append(daySlots, Slot{
				Datetime: day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute),
				Time:     entry.Time,
			})
		}
		all = append(all, daySlots)
	}
	return all
}

func slotsFromTemplate(doc models.Doctor, now time.Time) [][]Slot {
	all := make([][]Slot, 0, Horizon)
	for i := 0; i < Horizon; i++ {
		day := midnight(now).AddDate(0, 0, i)
		booked := doc.SlotsBooked[SlotDateKey(day)]

		startHour := fallbackStartHour
		if i == 0 && now.Hour()+1 > startHour {
			startHour = now.Hour() + 1
		}

		daySlots := []Slot{}
		for hour := startHour; hour < fallbackEndHour; hour++ {
			slot := day.Add(time.Duration(hour) * time.Hour)
			formatted := slot.Format("15:04")
			if contains(booked, formatted) {
				continue
			}
			daySlots = append(daySlots, Slot{Datetime: slot, Time: formatted})
		}
		all = append(all, daySlots)
	}
	return all
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
