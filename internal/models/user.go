package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the two-line postal address embedded in user and doctor profiles.
type Address struct {
	Line1 string `bson:"line1" json:"line1"`
	Line2 string `bson:"line2" json:"line2"`
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // Hide from JSON responses
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Address  Address            `bson:"address,omitempty" json:"address"`
	Gender   string             `bson:"gender,omitempty" json:"gender,omitempty"`
	DOB      string             `bson:"dob,omitempty" json:"dob,omitempty"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"` // Optional, can be empty
	Date     time.Time          `bson:"date,omitempty" json:"date,omitempty"`
}
