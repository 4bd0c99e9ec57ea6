package booking

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinibook/clinic-api/internal/models"
	"github.com/clinibook/clinic-api/internal/schedule"
)

// Actor roles recognized by the workflows.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// Service runs the booking, cancellation, schedule and payment workflows over
// the document stores. Now is injectable so the workflows stay deterministic
// under test.
type Service struct {
	Doctors      DoctorStore
	Users        UserStore
	Appointments AppointmentStore
	Now          func() time.Time
}

func NewService(doctors DoctorStore, users UserStore, appointments AppointmentStore) *Service {
	return &Service{
		Doctors:      doctors,
		Users:        users,
		Appointments: appointments,
		Now:          time.Now,
	}
}

// Book validates the slot, claims it on the doctor document and creates the
// appointment with user and doctor snapshots. The slot claim is a single
// conditional update, so two concurrent bookings for the same slot cannot
// both succeed. The appointment insert is a separate write; if it fails the
// held slot is not released here (callers see the error and retry booking).
func (s *Service) Book(ctx context.Context, docID, userID primitive.ObjectID, slotDate, slotTime string) (*models.Appointment, error) {
	if slotTime == "" {
		return nil, fmt.Errorf("%w: choose a time slot", ErrValidation)
	}
	if slotDate == "" {
		return nil, fmt.Errorf("%w: choose a date", ErrValidation)
	}

	doc, err := s.Doctors.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !doc.Available {
		return nil, fmt.Errorf("%w: doctor is not available", ErrConflict)
	}
	if containsTime(doc.SlotsBooked[slotDate], slotTime) {
		return nil, fmt.Errorf("%w: slot not available", ErrConflict)
	}

	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The conditional update is the real guard; the check above only gives
	// callers a friendlier early answer.
	if err := s.Doctors.ReserveSlot(ctx, docID, slotDate, slotTime); err != nil {
		return nil, err
	}

	now := s.Now()
	apt := &models.Appointment{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		DocID:         docID,
		SlotDate:      slotDate,
		SlotTime:      slotTime,
		UserData:      snapshotUser(*user),
		DocData:       snapshotDoctor(*doc),
		Date:          now,
		PaymentStatus: models.PaymentNone,
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Appointments.Insert(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Cancel marks an appointment cancelled and releases its slot. Only the
// booking patient, the assigned doctor or an admin may cancel. Cancelling an
// already-cancelled appointment is a success no-op for every actor.
func (s *Service) Cancel(ctx context.Context, aptID primitive.ObjectID, actor Actor) error {
	apt, err := s.Appointments.Get(ctx, aptID)
	if err != nil {
		return err
	}
	if err := authorizeOnAppointment(apt, actor); err != nil {
		return err
	}
	if apt.Cancelled {
		return nil
	}
	if err := s.Appointments.SetCancelled(ctx, aptID); err != nil {
		return err
	}
	return s.Doctors.ReleaseSlot(ctx, apt.DocID, apt.SlotDate, apt.SlotTime)
}

// Delete removes an appointment document entirely and reverses its slot
// entry. Patients may delete their own appointments; admins may delete any.
func (s *Service) Delete(ctx context.Context, aptID primitive.ObjectID, actor Actor) error {
	apt, err := s.Appointments.Get(ctx, aptID)
	if err != nil {
		return err
	}
	if actor.Role != RoleAdmin && apt.UserID != actor.ID {
		return fmt.Errorf("%w: not your appointment", ErrUnauthorized)
	}
	if err := s.Doctors.ReleaseSlot(ctx, apt.DocID, apt.SlotDate, apt.SlotTime); err != nil {
		return err
	}
	return s.Appointments.Delete(ctx, aptID)
}

// RequestPayment moves the appointment's payment state to pending on behalf
// of the booking patient. Already-confirmed payments are final.
func (s *Service) RequestPayment(ctx context.Context, aptID, userID primitive.ObjectID) error {
	apt, err := s.Appointments.Get(ctx, aptID)
	if err != nil {
		return err
	}
	if apt.UserID != userID {
		return fmt.Errorf("%w: not your appointment", ErrUnauthorized)
	}
	if apt.PaymentStatus == models.PaymentConfirmed {
		return fmt.Errorf("%w: payment already confirmed", ErrConflict)
	}
	return s.Appointments.SetPaymentStatus(ctx, aptID, models.PaymentPending)
}

// ConfirmPayment sets the appointment's payment state to confirmed. Admins
// may confirm from any prior state, including straight from none.
func (s *Service) ConfirmPayment(ctx context.Context, aptID primitive.ObjectID) error {
	if _, err := s.Appointments.Get(ctx, aptID); err != nil {
		return err
	}
	return s.Appointments.SetPaymentStatus(ctx, aptID, models.PaymentConfirmed)
}

// SubmitScheduleRequest validates and stores a doctor's proposed working
// schedule. The whole submission is rejected on any bad entry. A second
// submission overwrites the pending one (last write wins).
func (s *Service) SubmitScheduleRequest(ctx context.Context, docID primitive.ObjectID, req map[string][]models.ScheduleEntry) error {
	if err := schedule.ValidateRequest(req, s.Now()); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if _, err := s.Doctors.Get(ctx, docID); err != nil {
		return err
	}
	return s.Doctors.SetScheduleRequest(ctx, docID, req)
}

// ApproveSchedule replaces the doctor's approved schedule with the pending
// request verbatim and clears the request. There is no reject transition; a
// request can only be approved or superseded by a newer submission.
func (s *Service) ApproveSchedule(ctx context.Context, docID primitive.ObjectID) error {
	doc, err := s.Doctors.Get(ctx, docID)
	if err != nil {
		return err
	}
	if len(doc.WorkingScheduleRequest) == 0 {
		return fmt.Errorf("%w: no schedule request to approve", ErrConflict)
	}
	return s.Doctors.PromoteScheduleRequest(ctx, docID, doc.WorkingScheduleRequest)
}

func authorizeOnAppointment(apt *models.Appointment, actor Actor) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleDoctor:
		if apt.DocID == actor.ID {
			return nil
		}
	case RolePatient:
		if apt.UserID == actor.ID {
			return nil
		}
	}
	return fmt.Errorf("%w: not your appointment", ErrUnauthorized)
}

// snapshotUser copies the patient profile into the appointment, without the
// password hash.
func snapshotUser(u models.User) models.User {
	u.Password = ""
	return u
}

// snapshotDoctor copies the doctor profile into the appointment. The booked
// map and pending schedule state are live data and are not snapshotted.
func snapshotDoctor(d models.Doctor) models.Doctor {
	d.Password = ""
	d.SlotsBooked = nil
	d.WorkingScheduleRequest = nil
	return d
}

func containsTime(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
