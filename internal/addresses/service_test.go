package addresses

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
)

type fakeRepo struct {
	rows          map[uuid.UUID]*models.Address
	clearedFor    []uuid.UUID
	deleteMissing bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*models.Address{}}
}

func (f *fakeRepo) Create(_ context.Context, address *models.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	f.rows[address.ID] = address
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, ok := f.rows[addressID]
	if !ok || address.UserID != userID {
		return nil, nil
	}
	return address, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, address := range f.rows {
		if address.UserID == userID {
			out = append(out, *address)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, address *models.Address) error {
	f.rows[address.ID] = address
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, addressID uuid.UUID) (bool, error) {
	if f.deleteMissing {
		return false, nil
	}
	address, ok := f.rows[addressID]
	if !ok || address.UserID != userID {
		return false, nil
	}
	delete(f.rows, addressID)
	return true, nil
}

func (f *fakeRepo) ClearDefault(_ context.Context, userID uuid.UUID) error {
	f.clearedFor = append(f.clearedFor, userID)
	for _, address := range f.rows {
		if address.UserID == userID {
			address.IsDefault = false
		}
	}
	return nil
}

func TestCreateDefaultClearsPrevious(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	existing := &models.Address{ID: uuid.New(), UserID: userID, IsDefault: true}
	repo.rows[existing.ID] = existing

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.Create(context.Background(), userID, Input{
		Label:     "Home",
		Line1:     "12 Cedar Way",
		City:      "Springfield",
		Country:   "US",
		IsDefault: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsDefault {
		t.Fatal("new address should be default")
	}
	if existing.IsDefault {
		t.Fatal("previous default should be cleared")
	}
	if len(repo.clearedFor) != 1 {
		t.Fatalf("expected one clear call, got %d", len(repo.clearedFor))
	}
}

func TestGetScopedToOwner(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	address := &models.Address{ID: uuid.New(), UserID: owner, Label: "Home"}
	repo.rows[address.ID] = address

	svc, _ := NewService(repo)

	if _, err := svc.Get(context.Background(), owner, address.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}

	_, err := svc.Get(context.Background(), uuid.New(), address.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("other user should see not found, got %v", err)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.deleteMissing = true
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFormatForDelivery(t *testing.T) {
	region := "IL"
	postal := "62704"
	line2 := "Apt 4"
	address := &models.Address{
		Line1:      "12 Cedar Way",
		Line2:      &line2,
		City:       "Springfield",
		Region:     &region,
		PostalCode: &postal,
		Country:    "US",
	}

	got := FormatForDelivery(address)
	want := "12 Cedar Way, Apt 4, Springfield, IL, 62704, US"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
