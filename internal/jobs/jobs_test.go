package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinibook/clinic-api/internal/models"
)

var pruneNow = time.Date(2025, 3, 10, 0, 30, 0, 0, time.Local)

func TestExpiredSlotKeys(t *testing.T) {
	slots := map[string][]string{
		"9_3_2025":  {"10:00"}, // yesterday
		"10_3_2025": {"11:00"}, // today, keep
		"11_3_2025": {"12:00"}, // tomorrow, keep
		"1_1_2024":  {"08:00"},
		"garbage":   {"09:00"}, // unparseable, keep
	}

	expired := ExpiredSlotKeys(slots, pruneNow)
	assert.ElementsMatch(t, []string{"9_3_2025", "1_1_2024"}, expired)
}

func TestExpiredScheduleKeys(t *testing.T) {
	sched := map[string][]models.ScheduleEntry{
		"2025-03-09": {{Time: "08:00", Room: 1}},
		"2025-03-10": {{Time: "09:00", Room: 2}},
		"2025-03-15": {{Time: "10:00", Room: 3}},
		"not-a-date": {{Time: "11:00", Room: 1}},
	}

	expired := ExpiredScheduleKeys(sched, pruneNow)
	assert.ElementsMatch(t, []string{"2025-03-09"}, expired)
}

func TestExpiredKeysEmptyMaps(t *testing.T) {
	assert.Empty(t, ExpiredSlotKeys(nil, pruneNow))
	assert.Empty(t, ExpiredScheduleKeys(nil, pruneNow))
}
