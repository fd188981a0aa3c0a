package unitstore_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/bloodbank/internal/app/seed"
	"github.com/dalemusser/bloodbank/internal/app/store/bulk"
	unitstore "github.com/dalemusser/bloodbank/internal/app/store/units"
	"github.com/dalemusser/bloodbank/internal/app/system/indexes"
	"github.com/dalemusser/bloodbank/internal/testutil"
)

func TestStore_InsertMany_And_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := unitstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := store.InsertMany(ctx, seed.Units())
	if err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted: got %d, want 2", n)
	}

	first, err := store.GetByID(ctx, seed.PrimaryID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if first.DonorID != seed.PrimaryID || first.Status != "available" {
		t.Errorf("unexpected unit: %+v", first)
	}

	u, err := store.GetByID(ctx, seed.SecondaryID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if u.Contents.Hemoglobin != 15.87 || len(u.Contents.Additional) != 1 {
		t.Errorf("unexpected contents: %+v", u.Contents)
	}
}

func TestStore_InsertMany_DuplicateUnderUniqueIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := unitstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, true); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	if _, err := store.InsertMany(ctx, seed.Units()[:1]); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	n, err := store.InsertMany(ctx, seed.Units())
	if !errors.Is(err, bulk.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if n != 1 {
		t.Errorf("unordered insert should store the non-duplicate; got %d", n)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count: got %d, want 2", count)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := unitstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, unitstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
