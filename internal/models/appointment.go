package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment confirmation states for the consultation booking itself. This is a
// separate axis from the medication bill tracked on the diagnosis.
const (
	PaymentNone      = "none"
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
)

// Appointment lifecycle states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment snapshots user and doctor data at booking time, so later
// profile edits do not change how historical appointments display.
type Appointment struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId"`
	DocID         primitive.ObjectID  `bson:"docId" json:"docId"`
	SlotDate      string              `bson:"slotDate" json:"slotDate"` // "D_M_YYYY", no zero padding
	SlotTime      string              `bson:"slotTime" json:"slotTime"` // "HH:MM"
	UserData      User                `bson:"userData" json:"userData"`
	DocData       Doctor              `bson:"docData" json:"docData"` // snapshot without slots_booked
	Date          time.Time           `bson:"date" json:"date"`
	Cancelled     bool                `bson:"cancelled" json:"cancelled"`
	PaymentStatus string              `bson:"paymentStatus" json:"paymentStatus"`
	Status        string              `bson:"status" json:"status"`
	DiagnosisID   *primitive.ObjectID `bson:"diagnosisId,omitempty" json:"diagnosisId,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
