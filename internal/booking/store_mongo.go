package booking

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinibook/clinic-api/internal/models"
)

// Mongo-backed implementations of the store interfaces. Collection names
// match the original deployment so existing data keeps working.

type MongoDoctorStore struct {
	c *mongo.Collection
}

func NewMongoDoctorStore(db *mongo.Database) *MongoDoctorStore {
	return &MongoDoctorStore{c: db.Collection("doctors")}
}

func (s *MongoDoctorStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doc models.Doctor
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: doctor", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReserveSlot claims the slot with one conditional update: the filter only
// matches when the doctor is still available and the time is absent from
// that date's list, so concurrent bookings race on the database, not in
// application code. The $push creates the date key when needed.
func (s *MongoDoctorStore) ReserveSlot(ctx context.Context, id primitive.ObjectID, slotDate, slotTime string) error {
	key := "slots_booked." + slotDate
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "available": true, key: bson.M{"$ne": slotTime}},
		bson.M{"$push": bson.M{key: slotTime}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: slot not available", ErrConflict)
	}
	return nil
}

func (s *MongoDoctorStore) ReleaseSlot(ctx context.Context, id primitive.ObjectID, slotDate, slotTime string) error {
	key := "slots_booked." + slotDate
	if _, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{key: slotTime}},
	); err != nil {
		return err
	}
	// Drop the date key once its list is empty.
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, key: bson.M{"$size": 0}},
		bson.M{"$unset": bson.M{key: ""}},
	)
	return err
}

func (s *MongoDoctorStore) SetScheduleRequest(ctx context.Context, id primitive.ObjectID, req map[string][]models.ScheduleEntry) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"workingScheduleRequest": req}},
	)
	return err
}

func (s *MongoDoctorStore) PromoteScheduleRequest(ctx context.Context, id primitive.ObjectID, sched map[string][]models.ScheduleEntry) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"workingSchedule":        sched,
			"workingScheduleRequest": map[string][]models.ScheduleEntry{},
		}},
	)
	return err
}

type MongoUserStore struct {
	c *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{c: db.Collection("users")}
}

func (s *MongoUserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type MongoAppointmentStore struct {
	c *mongo.Collection
}

func NewMongoAppointmentStore(db *mongo.Database) *MongoAppointmentStore {
	return &MongoAppointmentStore{c: db.Collection("appointments")}
}

func (s *MongoAppointmentStore) Insert(ctx context.Context, apt *models.Appointment) error {
	_, err := s.c.InsertOne(ctx, apt)
	return err
}

func (s *MongoAppointmentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var apt models.Appointment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&apt)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: appointment", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &apt, nil
}

func (s *MongoAppointmentStore) SetCancelled(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"cancelled": true,
			"status":    models.StatusCancelled,
			"updatedAt": time.Now(),
		}},
	)
	return err
}

func (s *MongoAppointmentStore) SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"paymentStatus": status, "updatedAt": time.Now()}},
	)
	return err
}

func (s *MongoAppointmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
