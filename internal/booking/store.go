package booking

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinibook/clinic-api/internal/models"
)

// DoctorStore is the persistence surface the workflows need from the doctor
// collection. ReserveSlot must be atomic: it either claims the slot or
// reports ErrConflict, never both callers.
type DoctorStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)

	// ReserveSlot appends slotTime to slots_booked[slotDate] only when the
	// doctor is available and the time is not already present. ErrConflict
	// when the slot is taken or the doctor became unavailable.
	ReserveSlot(ctx context.Context, id primitive.ObjectID, slotDate, slotTime string) error

	// ReleaseSlot removes slotTime from slots_booked[slotDate], dropping the
	// date key entirely when its list becomes empty. Releasing a time that
	// is not held is a no-op.
	ReleaseSlot(ctx context.Context, id primitive.ObjectID, slotDate, slotTime string) error

	SetScheduleRequest(ctx context.Context, id primitive.ObjectID, req map[string][]models.ScheduleEntry) error

	// PromoteScheduleRequest replaces workingSchedule with the given map and
	// clears workingScheduleRequest in one write.
	PromoteScheduleRequest(ctx context.Context, id primitive.ObjectID, sched map[string][]models.ScheduleEntry) error
}

// UserStore resolves the patient snapshot embedded at booking time.
type UserStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AppointmentStore persists appointment documents.
type AppointmentStore interface {
	Insert(ctx context.Context, apt *models.Appointment) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	SetCancelled(ctx context.Context, id primitive.ObjectID) error
	SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
