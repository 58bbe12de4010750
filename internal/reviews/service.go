package reviews

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarhq/bazaar-backend/internal/catalog"
	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
	"github.com/bazaarhq/bazaar-backend/pkg/pagination"
)

// txRunner matches db.Client.WithTx.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries the writable review fields.
type Input struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// Page wraps a review listing with the product's aggregate rating.
type Page struct {
	Items         []models.Review `json:"items"`
	Cursor        string          `json:"cursor"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
}

// Service defines review operations.
type Service interface {
	Create(ctx context.Context, userID, productID uuid.UUID, input Input) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int, cursor string) (*Page, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, input Input) (*models.Review, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error
}

type service struct {
	repo    Repository
	catalog catalog.Service
	tx      txRunner
}

// NewService wires review dependencies.
func NewService(repo Repository, catalogSvc catalog.Service, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	if catalogSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, catalog: catalogSvc, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, input Input) (*models.Review, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and product id required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByProductAndUser(ctx, productID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   trimComment(input.Comment),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, review); err != nil {
			return err
		}
		return repo.AdjustProductRating(ctx, productID, int64(input.Rating), 1)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, limit int, cursor string) (*Page, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var parsed *pagination.Cursor
	if cursor != "" {
		parsed, err = pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
	}

	rows, next, err := s.repo.ListByProduct(ctx, productID, limit, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	out := &Page{
		Items:         rows,
		AverageRating: product.AverageRating(),
		ReviewCount:   product.RatingCount,
	}
	if next != nil {
		out.Cursor = pagination.EncodeCursor(*next)
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, reviewID uuid.UUID, input Input) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	if review.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another user")
	}

	sumDelta := int64(input.Rating - review.Rating)
	review.Rating = input.Rating
	review.Comment = trimComment(input.Comment)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, review); err != nil {
			return err
		}
		if sumDelta == 0 {
			return nil
		}
		return repo.AdjustProductRating(ctx, review.ProductID, sumDelta, 0)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	if !isAdmin && review.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another user")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		deleted, err := repo.Delete(ctx, reviewID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repo.AdjustProductRating(ctx, review.ProductID, -int64(review.Rating), -1)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func trimComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
