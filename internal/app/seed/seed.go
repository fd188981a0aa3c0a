// Package seed holds the fixed sample records written to a fresh database.
//
// The values mirror the deployment's original seed script. They are returned
// as fresh slices on every call so callers may mutate them freely.
package seed

import (
	"time"

	"github.com/dalemusser/bloodbank/internal/domain/models"
)

// Collection names the seed data is written to.
const (
	DonorCollection = "donor"
	UnitCollection  = "unit"
)

// Record IDs used by the seed. The second one is not a well-formed UUID;
// it is kept as the deployment has always shipped it.
const (
	PrimaryID   = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	SecondaryID = "6f47ac10b-58cc-4372-a567-0e02b2c3d478"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic("seed: bad timestamp literal " + s)
	}
	return t.UTC()
}

// Donors returns the two sample donors.
func Donors() []models.Donor {
	return []models.Donor{
		{
			ID:           PrimaryID,
			BirthNumber:  "9908121367",
			FirstName:    "Peter",
			LastName:     "Marcin",
			PostalCode:   "83407",
			BloodType:    "AB",
			BloodRh:      "+",
			Eligible:     true,
			LastDonation: ts("2023-01-02T12:00:00Z"),
			Email:        "example.donor@mail.com",
			PhoneNumber:  "+421905734825",
			Diseases:     []string{"HIV", "Diabetes"},
			Medications:  []string{"Paralen"},
			Substances:   []string{"Alcohol", "Cocaine"},
			CreatedAt:    ts("2023-01-01T12:00:00Z"),
			UpdatedAt:    ts("2023-01-02T12:00:00Z"),
		},
		{
			ID:           SecondaryID,
			BirthNumber:  "9908121377",
			FirstName:    "Alice",
			LastName:     "Smith",
			PostalCode:   "94025",
			BloodType:    "A",
			BloodRh:      "-",
			Eligible:     false,
			LastDonation: ts("2023-02-01T10:00:00Z"),
			Email:        "alice.smith@example.com",
			PhoneNumber:  "+421905734826",
			Diseases:     []string{"Anemia"},
			Medications:  []string{"Aspirin"},
			Substances:   []string{"Nicotine"},
			CreatedAt:    ts("2023-01-03T08:00:00Z"),
			UpdatedAt:    ts("2023-02-02T14:00:00Z"),
		},
	}
}

// Units returns the two sample blood units. Both belong to the first donor
// and share one donation.
func Units() []models.Unit {
	unit := func(id string) models.Unit {
		return models.Unit{
			ID:         id,
			DonorID:    PrimaryID,
			DonationID: PrimaryID,
			BloodType:  "AB",
			BloodRh:    "+",
			Status:     "available",
			Location:   "83407",
			Contents: models.UnitContents{
				Hemoglobin:   15.87,
				Erythrocytes: true,
				Leukocytes:   true,
				Platelets:    true,
				Plasma:       true,
				Additional:   []string{"alcohol"},
			},
			Frozen:     false,
			Diseases:   []string{"HIV", "Diabetes"},
			Expiration: ts("2023-01-01T12:00:00Z"),
			CreatedAt:  ts("2023-01-01T12:00:00Z"),
			UpdatedAt:  ts("2023-01-02T12:00:00Z"),
		}
	}
	return []models.Unit{unit(PrimaryID), unit(SecondaryID)}
}
