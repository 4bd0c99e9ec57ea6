package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinibook/clinic-api/internal/models"
)

func TestValidateRequestWindow(t *testing.T) {
	today := time.Date(2025, 3, 10, 11, 45, 0, 0, time.Local)

	entry := []models.ScheduleEntry{{Time: "08:00", Room: 1}}

	// Today is accepted even though the clock is past midnight.
	err := ValidateRequest(map[string][]models.ScheduleEntry{"2025-03-10": entry}, today)
	assert.NoError(t, err)

	// Fifteen days out is the inclusive upper bound.
	err = ValidateRequest(map[string][]models.ScheduleEntry{"2025-03-25": entry}, today)
	assert.NoError(t, err)

	// Sixteen days out is rejected.
	err = ValidateRequest(map[string][]models.ScheduleEntry{"2025-03-26": entry}, today)
	assert.ErrorContains(t, err, "out of the allowed")

	// Yesterday is rejected.
	err = ValidateRequest(map[string][]models.ScheduleEntry{"2025-03-09": entry}, today)
	assert.ErrorContains(t, err, "out of the allowed")
}

func TestValidateRequestTimesAndRooms(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	// A single disallowed time fails the whole submission.
	err := ValidateRequest(map[string][]models.ScheduleEntry{
		"2025-03-11": {{Time: "08:00", Room: 1}, {Time: "12:00", Room: 1}},
	}, today)
	assert.ErrorContains(t, err, "invalid time slot 12:00")

	err = ValidateRequest(map[string][]models.ScheduleEntry{
		"2025-03-11": {{Time: "", Room: 1}},
	}, today)
	assert.ErrorContains(t, err, "missing time slot")

	err = ValidateRequest(map[string][]models.ScheduleEntry{
		"2025-03-11": {{Time: "09:00", Room: 4}},
	}, today)
	assert.ErrorContains(t, err, "invalid room 4")

	err = ValidateRequest(map[string][]models.ScheduleEntry{
		"2025-03-11": {{Time: "09:00", Room: 0}},
	}, today)
	assert.ErrorContains(t, err, "invalid room 0")

	// Every time in the allow-list passes with a valid room.
	for _, ts := range AllowedTimes {
		err := ValidateRequest(map[string][]models.ScheduleEntry{
			"2025-03-11": {{Time: ts, Room: 2}},
		}, today)
		assert.NoError(t, err, ts)
	}
}

func TestValidateRequestMalformedDates(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	entry := []models.ScheduleEntry{{Time: "08:00", Room: 1}}

	err := ValidateRequest(map[string][]models.ScheduleEntry{"10/03/2025": entry}, today)
	assert.ErrorContains(t, err, "invalid date format")

	err = ValidateRequest(nil, today)
	assert.ErrorContains(t, err, "empty")
}
