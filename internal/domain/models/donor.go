// internal/domain/models/donor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donor is a person record with medical and contact attributes.
// ID is the application identifier; _id is left to MongoDB.
type Donor struct {
	MongoID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string             `bson:"id" json:"id" validate:"required"`
	BirthNumber string             `bson:"birth_number" json:"birth_number"`
	FirstName   string             `bson:"first_name" json:"first_name" validate:"required"`
	LastName    string             `bson:"last_name" json:"last_name" validate:"required"`
	PostalCode  string             `bson:"postal_code" json:"postal_code"`

	BloodType    string    `bson:"blood_type" json:"blood_type" validate:"required,oneof=A B AB 0"`
	BloodRh      string    `bson:"blood_rh" json:"blood_rh" validate:"required,oneof=+ -"`
	Eligible     bool      `bson:"eligible" json:"eligible"`
	LastDonation time.Time `bson:"last_donation" json:"last_donation"`

	Email       string `bson:"email" json:"email" validate:"omitempty,email"`
	PhoneNumber string `bson:"phone_number" json:"phone_number" validate:"omitempty,e164"`

	Diseases    []string `bson:"diseases" json:"diseases"`
	Medications []string `bson:"medications" json:"medications"`
	Substances  []string `bson:"substances" json:"substances"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
