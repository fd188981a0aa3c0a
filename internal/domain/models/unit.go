// internal/domain/models/unit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unit tracks one blood donation unit in storage.
//
// DonorID and DonationID are application-level references; nothing in the
// database enforces them.
type Unit struct {
	MongoID    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID         string             `bson:"id" json:"id" validate:"required"`
	DonorID    string             `bson:"donor_id" json:"donor_id" validate:"required"`
	DonationID string             `bson:"donation_id" json:"donation_id"`

	BloodType string `bson:"blood_type" json:"blood_type" validate:"required,oneof=A B AB 0"`
	BloodRh   string `bson:"blood_rh" json:"blood_rh" validate:"required,oneof=+ -"`
	Status    string `bson:"status" json:"status" validate:"required"` // free text: available, unprocessed, ...
	Location  string `bson:"location" json:"location"`

	Contents UnitContents `bson:"contents" json:"contents"`
	Frozen   bool         `bson:"frozen" json:"frozen"`
	Diseases []string     `bson:"diseases" json:"diseases"`

	Expiration time.Time `bson:"expiration" json:"expiration"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// UnitContents records which blood components are present and the measured
// hemoglobin (g/dL).
type UnitContents struct {
	Hemoglobin   float64  `bson:"hemoglobin" json:"hemoglobin" validate:"gte=0"`
	Erythrocytes bool     `bson:"erythrocytes" json:"erythrocytes"`
	Leukocytes   bool     `bson:"leukocytes" json:"leukocytes"`
	Platelets    bool     `bson:"platelets" json:"platelets"`
	Plasma       bool     `bson:"plasma" json:"plasma"`
	Additional   []string `bson:"additional" json:"additional"`
}
