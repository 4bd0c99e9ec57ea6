package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleEntry is one bookable unit inside a working schedule: a time of day
// from the clinic's fixed slot vocabulary plus the consulting room.
type ScheduleEntry struct {
	Time string `bson:"time" json:"time"`
	Room int    `bson:"room" json:"room"`
}

// TemplateMedication is a medication line inside a diagnosis template. It has
// no price; prices are filled in when the template is applied.
type TemplateMedication struct {
	Name     string `bson:"name" json:"name"`
	Dosage   string `bson:"dosage" json:"dosage"`
	Duration string `bson:"duration" json:"duration"`
}

// DiagnosisTemplate is a doctor-owned preset for writing diagnoses quickly.
type DiagnosisTemplate struct {
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Symptoms    []string             `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Treatments  []string             `bson:"treatments,omitempty" json:"treatments,omitempty"`
	Medications []TemplateMedication `bson:"medications,omitempty" json:"medications,omitempty"`
}

// Doctor carries both the directory profile and the embedded scheduling state.
//
// SlotsBooked is keyed by the legacy "D_M_YYYY" date key (no zero padding);
// WorkingSchedule and WorkingScheduleRequest are keyed by ISO "YYYY-MM-DD"
// dates. Both formats are part of the stored-data contract and must not be
// normalized.
type Doctor struct {
	ID                     primitive.ObjectID         `bson:"_id,omitempty" json:"id"`
	Name                   string                     `bson:"name" json:"name"`
	Email                  string                     `bson:"email" json:"email"`
	Password               string                     `bson:"password" json:"-"`
	Image                  string                     `bson:"image,omitempty" json:"image,omitempty"`
	Speciality             string                     `bson:"speciality" json:"speciality"`
	Degree                 string                     `bson:"degree" json:"degree"`
	Experience             string                     `bson:"experience" json:"experience"`
	About                  string                     `bson:"about" json:"about"`
	Fees                   float64                    `bson:"fees,omitempty" json:"fees,omitempty"`
	Available              bool                       `bson:"available" json:"available"`
	Address                Address                    `bson:"address" json:"address"`
	Date                   time.Time                  `bson:"date,omitempty" json:"date,omitempty"`
	SlotsBooked            map[string][]string        `bson:"slots_booked" json:"slots_booked"`
	WorkingSchedule        map[string][]ScheduleEntry `bson:"workingSchedule" json:"workingSchedule"`
	WorkingScheduleRequest map[string][]ScheduleEntry `bson:"workingScheduleRequest" json:"workingScheduleRequest"`
	DiagnosisTemplates     []DiagnosisTemplate        `bson:"diagnosisTemplates,omitempty" json:"diagnosisTemplates,omitempty"`
}

// PublicView strips credentials for the patient-facing directory.
func (d Doctor) PublicView() Doctor {
	d.Password = ""
	d.Email = ""
	return d
}
