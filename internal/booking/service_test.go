package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinibook/clinic-api/internal/models"
	"github.com/clinibook/clinic-api/internal/schedule"
)

// -- In-memory stores --

type fakeDoctorStore struct {
	docs map[primitive.ObjectID]*models.Doctor
}

func newFakeDoctorStore() *fakeDoctorStore {
	return &fakeDoctorStore{docs: make(map[primitive.ObjectID]*models.Doctor)}
}

func (f *fakeDoctorStore) Get(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: doctor", ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDoctorStore) ReserveSlot(_ context.Context, id primitive.ObjectID, slotDate, slotTime string) error {
	d, ok := f.docs[id]
	if !ok || !d.Available {
		return fmt.Errorf("%w: slot not available", ErrConflict)
	}
	for _, t := range d.SlotsBooked[slotDate] {
		if t == slotTime {
			return fmt.Errorf("%w: slot not available", ErrConflict)
		}
	}
	if d.SlotsBooked == nil {
		d.SlotsBooked = make(map[string][]string)
	}
	d.SlotsBooked[slotDate] = append(d.SlotsBooked[slotDate], slotTime)
	return nil
}

func (f *fakeDoctorStore) ReleaseSlot(_ context.Context, id primitive.ObjectID, slotDate, slotTime string) error {
	d, ok := f.docs[id]
	if !ok {
		return fmt.Errorf("%w: doctor", ErrNotFound)
	}
	times := d.SlotsBooked[slotDate]
	kept := times[:0]
	for _, t := range times {
		if t != slotTime {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(d.SlotsBooked, slotDate)
	} else {
		d.SlotsBooked[slotDate] = kept
	}
	return nil
}

func (f *fakeDoctorStore) SetScheduleRequest(_ context.Context, id primitive.ObjectID, req map[string][]models.ScheduleEntry) error {
	f.docs[id].WorkingScheduleRequest = req
	return nil
}

func (f *fakeDoctorStore) PromoteScheduleRequest(_ context.Context, id primitive.ObjectID, sched map[string][]models.ScheduleEntry) error {
	d := f.docs[id]
	d.WorkingSchedule = sched
	d.WorkingScheduleRequest = map[string][]models.ScheduleEntry{}
	return nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserStore) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

type fakeAppointmentStore struct {
	appts map[primitive.ObjectID]*models.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{appts: make(map[primitive.ObjectID]*models.Appointment)}
}

func (f *fakeAppointmentStore) Insert(_ context.Context, apt *models.Appointment) error {
	cp := *apt
	f.appts[apt.ID] = &cp
	return nil
}

func (f *fakeAppointmentStore) Get(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, fmt.Errorf("%w: appointment", ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentStore) SetCancelled(_ context.Context, id primitive.ObjectID) error {
	f.appts[id].Cancelled = true
	f.appts[id].Status = models.StatusCancelled
	return nil
}

func (f *fakeAppointmentStore) SetPaymentStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.appts[id].PaymentStatus = status
	return nil
}

func (f *fakeAppointmentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.appts, id)
	return nil
}

// -- Fixtures --

func newTestService() (*Service, *fakeDoctorStore, *fakeUserStore, *fakeAppointmentStore, primitive.ObjectID, primitive.ObjectID) {
	doctors := newFakeDoctorStore()
	users := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	appts := newFakeAppointmentStore()

	docID := primitive.NewObjectID()
	doctors.docs[docID] = &models.Doctor{
		ID:        docID,
		Name:      "Dr. Hoang",
		Email:     "hoang@clinic.local",
		Password:  "hashed",
		Available: true,
	}

	userID := primitive.NewObjectID()
	users.users[userID] = &models.User{
		ID:       userID,
		Name:     "Linh Tran",
		Email:    "linh@example.com",
		Password: "hashed",
	}

	svc := NewService(doctors, users, appts)
	svc.Now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local) }
	return svc, doctors, users, appts, docID, userID
}

// -- Booking --

func TestBookFreeSlot(t *testing.T) {
	svc, doctors, _, appts, docID, userID := newTestService()

	apt, err := svc.Book(context.Background(), docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00"}, doctors.docs[docID].SlotsBooked["10_3_2025"])
	assert.Equal(t, models.StatusPending, apt.Status)
	assert.Equal(t, models.PaymentNone, apt.PaymentStatus)
	assert.Equal(t, "Linh Tran", apt.UserData.Name)
	assert.Empty(t, apt.UserData.Password)
	assert.Nil(t, apt.DocData.SlotsBooked)
	assert.Len(t, appts.appts, 1)

	// Availability no longer lists the booked time.
	days := schedule.AvailableSlots(*doctors.docs[docID], svc.Now())
	for _, s := range days[0] {
		assert.NotEqual(t, "08:00", s.Time)
	}
}

func TestBookTakenSlot(t *testing.T) {
	svc, _, _, _, docID, userID := newTestService()

	_, err := svc.Book(context.Background(), docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), docID, userID, "10_3_2025", "08:00")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBookValidation(t *testing.T) {
	svc, doctors, _, _, docID, userID := newTestService()

	_, err := svc.Book(context.Background(), docID, userID, "10_3_2025", "")
	assert.ErrorIs(t, err, ErrValidation)

	doctors.docs[docID].Available = false
	_, err = svc.Book(context.Background(), docID, userID, "10_3_2025", "08:00")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Book(context.Background(), primitive.NewObjectID(), userID, "10_3_2025", "08:00")
	assert.ErrorIs(t, err, ErrNotFound)
}

// -- Cancellation --

func TestCancelReleasesSlotAndIsIdempotent(t *testing.T) {
	svc, doctors, _, appts, docID, userID := newTestService()

	apt, err := svc.Book(context.Background(), docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)

	patient := Actor{ID: userID, Role: RolePatient}
	require.NoError(t, svc.Cancel(context.Background(), apt.ID, patient))

	assert.True(t, appts.appts[apt.ID].Cancelled)
	assert.Equal(t, models.StatusCancelled, appts.appts[apt.ID].Status)
	// The emptied date key is removed outright.
	_, exists := doctors.docs[docID].SlotsBooked["10_3_2025"]
	assert.False(t, exists)

	// Second cancel: no error, no duplicate removal.
	require.NoError(t, svc.Cancel(context.Background(), apt.ID, patient))
	require.NoError(t, svc.Cancel(context.Background(), apt.ID, Actor{ID: docID, Role: RoleDoctor}))
}

func TestCancelAuthorization(t *testing.T) {
	svc, _, _, _, docID, userID := newTestService()

	apt, err := svc.Book(context.Background(), docID, userID, "10_3_2025", "09:00")
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), apt.ID, Actor{ID: primitive.NewObjectID(), Role: RolePatient})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.Cancel(context.Background(), apt.ID, Actor{ID: primitive.NewObjectID(), Role: RoleDoctor})
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.NoError(t, svc.Cancel(context.Background(), apt.ID, Actor{Role: RoleAdmin}))
}

func TestCancelKeepsOtherSlotsOnSameDay(t *testing.T) {
	svc, doctors, _, _, docID, userID := newTestService()

	first, err := svc.Book(context.Background(), docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), docID, userID, "10_3_2025", "09:00")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), first.ID, Actor{ID: userID, Role: RolePatient}))
	assert.Equal(t, []string{"09:00"}, doctors.docs[docID].SlotsBooked["10_3_2025"])
}

func TestDeleteAppointment(t *testing.T) {
	svc, doctors, _, appts, docID, userID := newTestService()

	apt, err := svc.Book(context.Background(), docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), apt.ID, Actor{ID: primitive.NewObjectID(), Role: RolePatient})
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Delete(context.Background(), apt.ID, Actor{ID: userID, Role: RolePatient}))
	assert.Empty(t, appts.appts)
	assert.Empty(t, doctors.docs[docID].SlotsBooked)
}

// -- Payment --

func TestPaymentTransitions(t *testing.T) {
	svc, _, _, appts, docID, userID := newTestService()
	ctx := context.Background()

	apt, err := svc.Book(ctx, docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)

	// Someone else cannot request payment.
	err = svc.RequestPayment(ctx, apt.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.RequestPayment(ctx, apt.ID, userID))
	assert.Equal(t, models.PaymentPending, appts.appts[apt.ID].PaymentStatus)

	// Re-requesting while pending is allowed.
	require.NoError(t, svc.RequestPayment(ctx, apt.ID, userID))

	require.NoError(t, svc.ConfirmPayment(ctx, apt.ID))
	assert.Equal(t, models.PaymentConfirmed, appts.appts[apt.ID].PaymentStatus)

	// Confirmed is final from the patient's side.
	err = svc.RequestPayment(ctx, apt.ID, userID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConfirmPaymentSkipsPending(t *testing.T) {
	svc, _, _, appts, docID, userID := newTestService()
	ctx := context.Background()

	apt, err := svc.Book(ctx, docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)

	// Admin may confirm straight from none.
	require.NoError(t, svc.ConfirmPayment(ctx, apt.ID))
	assert.Equal(t, models.PaymentConfirmed, appts.appts[apt.ID].PaymentStatus)

	err = svc.ConfirmPayment(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

// -- Schedule request / approval --

func TestScheduleRequestAndApproval(t *testing.T) {
	svc, doctors, _, _, docID, _ := newTestService()
	ctx := context.Background()

	// Approving with nothing pending is rejected.
	err := svc.ApproveSchedule(ctx, docID)
	assert.ErrorIs(t, err, ErrConflict)

	req := map[string][]models.ScheduleEntry{
		"2025-03-12": {{Time: "08:00", Room: 1}, {Time: "13:00", Room: 2}},
		"2025-03-25": {{Time: "09:00", Room: 3}},
	}
	require.NoError(t, svc.SubmitScheduleRequest(ctx, docID, req))
	assert.Equal(t, req, doctors.docs[docID].WorkingScheduleRequest)

	require.NoError(t, svc.ApproveSchedule(ctx, docID))
	assert.Equal(t, req, doctors.docs[docID].WorkingSchedule)
	assert.Empty(t, doctors.docs[docID].WorkingScheduleRequest)
}

func TestScheduleRequestValidation(t *testing.T) {
	svc, _, _, _, docID, _ := newTestService()
	ctx := context.Background()

	// 16 days out (now is 2025-03-10).
	err := svc.SubmitScheduleRequest(ctx, docID, map[string][]models.ScheduleEntry{
		"2025-03-26": {{Time: "08:00", Room: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Disallowed time rejects the whole submission.
	err = svc.SubmitScheduleRequest(ctx, docID, map[string][]models.ScheduleEntry{
		"2025-03-11": {{Time: "08:00", Room: 1}},
		"2025-03-12": {{Time: "12:00", Room: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.SubmitScheduleRequest(ctx, primitive.NewObjectID(), map[string][]models.ScheduleEntry{
		"2025-03-11": {{Time: "08:00", Room: 1}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// End-to-end path: approve schedule, book, cancel.
func TestBookingLifecycle(t *testing.T) {
	svc, doctors, _, appts, docID, userID := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SubmitScheduleRequest(ctx, docID, map[string][]models.ScheduleEntry{
		"2025-03-10": {{Time: "08:00", Room: 1}},
	}))
	require.NoError(t, svc.ApproveSchedule(ctx, docID))

	apt, err := svc.Book(ctx, docID, userID, "10_3_2025", "08:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00"}, doctors.docs[docID].SlotsBooked["10_3_2025"])

	require.NoError(t, svc.Cancel(ctx, apt.ID, Actor{ID: userID, Role: RolePatient}))
	assert.True(t, appts.appts[apt.ID].Cancelled)
	_, exists := doctors.docs[docID].SlotsBooked["10_3_2025"]
	assert.False(t, exists)
}
