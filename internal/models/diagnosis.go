package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medication bill states for a diagnosis. Distinct from the appointment's
// own paymentStatus; the two are never reconciled automatically.
const (
	BillPending = "pending"
	BillPaid    = "paid"
)

// Medication is one prescribed item. Dosage and duration are mandatory.
type Medication struct {
	Name     string  `bson:"name" json:"name"`
	Dosage   string  `bson:"dosage" json:"dosage"`
	Duration string  `bson:"duration" json:"duration"`
	Price    float64 `bson:"price" json:"price"`
}

// Diagnosis is the medical record a doctor attaches to an appointment.
// TotalAmount is always computed server-side from the medication prices.
type Diagnosis struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID primitive.ObjectID `bson:"appointmentId" json:"appointmentId"`
	DoctorID      primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientID     primitive.ObjectID `bson:"patientId" json:"patientId"`
	Symptoms      []string           `bson:"symptoms" json:"symptoms"`
	Diagnosis     string             `bson:"diagnosis" json:"diagnosis"`
	Treatments    []string           `bson:"treatments" json:"treatments"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Medications   []Medication       `bson:"medications" json:"medications"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TotalMedicationAmount sums the prices of a medication list.
func TotalMedicationAmount(meds []Medication) float64 {
	var total float64
	for _, m := range meds {
		total += m.Price
	}
	return total
}
