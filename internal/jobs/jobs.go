package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinibook/clinic-api/internal/models"
	"github.com/clinibook/clinic-api/internal/schedule"
)

// Maintenance runs the nightly cleanup over doctor documents: booked-slot
// entries and schedule days that are in the past get dropped so the embedded
// maps do not grow forever.
type Maintenance struct {
	db   *mongo.Database
	log  zerolog.Logger
	cron *cron.Cron
}

func NewMaintenance(db *mongo.Database, log zerolog.Logger) *Maintenance {
	return &Maintenance{
		db:   db,
		log:  log.With().Str("component", "maintenance").Logger(),
		cron: cron.New(),
	}
}

// Start schedules the nightly prune shortly after midnight.
func (m *Maintenance) Start() error {
	if _, err := m.cron.AddFunc("5 0 * * *", m.pruneDoctors); err != nil {
		return err
	}
	m.cron.Start()
	m.log.Info().Msg("maintenance jobs scheduled")
	return nil
}

func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Maintenance) pruneDoctors() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	doctors := m.db.Collection("doctors")
	cur, err := doctors.Find(ctx, bson.M{})
	if err != nil {
		m.log.Error().Err(err).Msg("prune: listing doctors failed")
		return
	}
	defer cur.Close(ctx)

	now := time.Now()
	pruned := 0
	for cur.Next(ctx) {
		var doc models.Doctor
		if err := cur.Decode(&doc); err != nil {
			m.log.Error().Err(err).Msg("prune: decoding doctor failed")
			continue
		}

		unset := bson.M{}
		for _, key := range ExpiredSlotKeys(doc.SlotsBooked, now) {
			unset["slots_booked."+key] = ""
		}
		for _, key := range ExpiredScheduleKeys(doc.WorkingSchedule, now) {
			unset["workingSchedule."+key] = ""
		}
		for _, key := range ExpiredScheduleKeys(doc.WorkingScheduleRequest, now) {
			unset["workingScheduleRequest."+key] = ""
		}
		if len(unset) == 0 {
			continue
		}

		if _, err := doctors.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$unset": unset}); err != nil {
			m.log.Error().Err(err).Str("doctor", doc.ID.Hex()).Msg("prune: update failed")
			continue
		}
		pruned += len(unset)
	}
	if err := cur.Err(); err != nil {
		m.log.Error().Err(err).Msg("prune: cursor failed")
	}
	m.log.Info().Int("entries", pruned).Msg("prune finished")
}

// ExpiredSlotKeys returns the booked-slot date keys that fall before today.
// Keys that do not parse are kept; dropping data on a parse bug is worse
// than carrying it.
func ExpiredSlotKeys(slots map[string][]string, now time.Time) []string {
	today := startOfDay(now)
	var expired []string
	for key := range slots {
		day, err := schedule.ParseSlotDateKey(key)
		if err != nil {
			continue
		}
		if day.Before(today) {
			expired = append(expired, key)
		}
	}
	return expired
}

// ExpiredScheduleKeys returns the ISO schedule date keys that fall before
// today.
func ExpiredScheduleKeys(entries map[string][]models.ScheduleEntry, now time.Time) []string {
	today := startOfDay(now)
	var expired []string
	for key := range entries {
		day, err := schedule.ParseISODate(key)
		if err != nil {
			continue
		}
		if day.Before(today) {
			expired = append(expired, key)
		}
	}
	return expired
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
