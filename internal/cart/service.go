package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/internal/catalog"
	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

// MaxLineQuantity caps a single cart line. Writes that would push a line
// past the cap are rejected, never clamped.
const MaxLineQuantity = 999

var errQuantityTooLarge = pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-line maximum")

// AddInput carries the fields for adding a product to the cart.
type AddInput struct {
	ProductID       uuid.UUID  `json:"product_id" validate:"required"`
	VariantOptionID *uuid.UUID `json:"variant_option_id"`
	Quantity        int        `json:"quantity" validate:"required,min=1"`
}

// UpdateInput carries the replacement quantity for a cart line.
type UpdateInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// Service defines cart operations. Mutations return the affected line,
// priced at the time of the call; GetSnapshot prices the whole cart.
type Service interface {
	GetSnapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*Line, error)
	UpdateLine(ctx context.Context, userID, lineID uuid.UUID, input UpdateInput) (*Line, error)
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*Line, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo    Repository
	catalog catalog.Service
	metrics skipRecorder
}

// NewService wires cart dependencies.
func NewService(repo Repository, catalogSvc catalog.Service, metrics skipRecorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart repository required")
	}
	if catalogSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service required")
	}
	if metrics == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart metrics required")
	}
	return &service{repo: repo, catalog: catalogSvc, metrics: metrics}, nil
}

func (s *service) GetSnapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	products, err := s.loadProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	snapshot := buildSnapshot(items, products, s.metrics)
	return &snapshot, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*Line, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.Quantity > MaxLineQuantity {
		return nil, errQuantityTooLarge
	}

	product, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
	}
	if input.VariantOptionID != nil {
		if _, ok := types.FindOption(product.VariantGroups, *input.VariantOptionID); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant option not found on product")
		}
	} else if len(product.VariantGroups) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant option required for this product")
	}

	existing, err := s.repo.GetLine(ctx, userID, input.ProductID, input.VariantOptionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	var item *models.CartItem
	if existing != nil {
		merged := existing.Quantity + input.Quantity
		if merged > MaxLineQuantity {
			return nil, errQuantityTooLarge
		}
		if err := s.repo.UpdateQuantity(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
		existing.Quantity = merged
		item = existing
	} else {
		item = &models.CartItem{
			UserID:          userID,
			ProductID:       input.ProductID,
			VariantOptionID: input.VariantOptionID,
			Quantity:        input.Quantity,
		}
		if err := s.repo.Create(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
	}

	return s.priceLine(ctx, item)
}

func (s *service) UpdateLine(ctx context.Context, userID, lineID uuid.UUID, input UpdateInput) (*Line, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.Quantity > MaxLineQuantity {
		return nil, errQuantityTooLarge
	}

	line, err := s.repo.GetLineByID(ctx, userID, lineID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.repo.UpdateQuantity(ctx, line.ID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	line.Quantity = input.Quantity
	return s.priceLine(ctx, line)
}

// RemoveLine deletes a line and returns it as it was priced at removal time.
func (s *service) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*Line, error) {
	item, err := s.repo.GetLineByID(ctx, userID, lineID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	products, err := s.loadProducts(ctx, []models.CartItem{*item})
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, userID, lineID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return s.pricedOrStored(item, products), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// priceLine prices a single stored line against the current catalog.
func (s *service) priceLine(ctx context.Context, item *models.CartItem) (*Line, error) {
	products, err := s.loadProducts(ctx, []models.CartItem{*item})
	if err != nil {
		return nil, err
	}
	return s.pricedOrStored(item, products), nil
}

// pricedOrStored falls back to the stored fields when the product no longer
// resolves, so a mutation result never vanishes from the response.
func (s *service) pricedOrStored(item *models.CartItem, products map[uuid.UUID]*models.Product) *Line {
	priced := buildSnapshot([]models.CartItem{*item}, products, nopSkipRecorder{})
	if len(priced.Lines) == 1 {
		return &priced.Lines[0]
	}
	return &Line{
		ID:              item.ID,
		ProductID:       item.ProductID,
		VariantOptionID: item.VariantOptionID,
		Quantity:        item.Quantity,
		AddedAt:         item.CreatedAt,
	}
}

func (s *service) loadProducts(ctx context.Context, items []models.CartItem) (map[uuid.UUID]*models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := map[uuid.UUID]struct{}{}
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	out := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}
