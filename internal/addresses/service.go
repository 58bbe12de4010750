package addresses

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
)

// Input carries the writable address fields.
type Input struct {
	Label      string  `json:"label" validate:"required,min=1,max=60"`
	Line1      string  `json:"line1" validate:"required,min=1,max=200"`
	Line2      *string `json:"line2" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,min=1,max=100"`
	Region     *string `json:"region" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string  `json:"country" validate:"required,min=2,max=60"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	IsDefault  bool    `json:"is_default"`
}

// Service defines address book operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input Input) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires address dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "addresses repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	if input.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
		}
	}

	address := &models.Address{UserID: userID}
	applyInput(address, input)

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return address, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.load(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input Input) (*models.Address, error) {
	address, err := s.load(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
		}
	}

	applyInput(address, input)
	if err := s.repo.Update(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return address, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	deleted, err := s.repo.Delete(ctx, userID, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	address, err := s.repo.GetByID(ctx, userID, addressID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}

func applyInput(address *models.Address, input Input) {
	address.Label = strings.TrimSpace(input.Label)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = input.Line2
	address.City = strings.TrimSpace(input.City)
	address.Region = input.Region
	address.PostalCode = input.PostalCode
	address.Country = strings.TrimSpace(input.Country)
	address.Phone = input.Phone
	address.IsDefault = input.IsDefault
}

// FormatForDelivery renders the single-line representation copied onto orders.
func FormatForDelivery(address *models.Address) string {
	parts := []string{address.Line1}
	if address.Line2 != nil && strings.TrimSpace(*address.Line2) != "" {
		parts = append(parts, strings.TrimSpace(*address.Line2))
	}
	parts = append(parts, address.City)
	if address.Region != nil && strings.TrimSpace(*address.Region) != "" {
		parts = append(parts, strings.TrimSpace(*address.Region))
	}
	if address.PostalCode != nil && strings.TrimSpace(*address.PostalCode) != "" {
		parts = append(parts, strings.TrimSpace(*address.PostalCode))
	}
	parts = append(parts, address.Country)
	return strings.Join(parts, ", ")
}
