package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/pkg/db"
	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
	"github.com/bazaarhq/bazaar-backend/pkg/pagination"
)

// ProductPage wraps a product listing and its next-page cursor.
type ProductPage struct {
	Items  []models.Product `json:"items"`
	Cursor string           `json:"cursor"`
}

// Service defines catalog read and admin write operations.
type Service interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        normalizeSlug(input.Slug),
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "idx_categories") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name or slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Slug = normalizeSlug(input.Slug)
	category.Description = input.Description
	category.ImageURL = input.ImageURL

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "idx_categories") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name or slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	count, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category still has products")
	}

	deleted, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	if err := validateVariantInputs(input.VariantGroups); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		CategoryID:        input.CategoryID,
		SellerID:          input.SellerID,
		Name:              strings.TrimSpace(input.Name),
		Slug:              normalizeSlug(input.Slug),
		Description:       input.Description,
		BasePrice:         input.BasePrice,
		ImageURL:          input.ImageURL,
		VariantGroups:     buildVariantGroups(input.VariantGroups),
		RelatedProductIDs: relatedProductRefs(input.RelatedProductIDs),
		IsActive:          isActive,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	rows, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	return rows, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	params := listProductsParams{
		CategoryID: input.CategoryID,
		Search:     strings.ToLower(strings.TrimSpace(input.Search)),
		ActiveOnly: input.ActiveOnly,
		Limit:      input.Limit,
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ProductPage{Items: rows, Cursor: cursor}, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	if err := validateVariantInputs(input.VariantGroups); err != nil {
		return nil, err
	}
	if input.CategoryID != product.CategoryID {
		if _, err := s.GetCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	for _, related := range input.RelatedProductIDs {
		if related == product.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a product cannot relate to itself")
		}
	}

	product.CategoryID = input.CategoryID
	product.SellerID = input.SellerID
	product.Name = strings.TrimSpace(input.Name)
	product.Slug = normalizeSlug(input.Slug)
	product.Description = input.Description
	product.BasePrice = input.BasePrice
	product.ImageURL = input.ImageURL
	if input.VariantGroups != nil {
		product.VariantGroups = mergeVariantGroups(product.VariantGroups, input.VariantGroups)
	}
	product.RelatedProductIDs = relatedProductRefs(input.RelatedProductIDs)
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func validateVariantInputs(groups []VariantGroupInput) error {
	for _, group := range groups {
		seen := map[string]struct{}{}
		for _, opt := range group.Options {
			if opt.Price.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "variant price cannot be negative")
			}
			key := strings.ToLower(strings.TrimSpace(opt.Value))
			if _, dup := seen[key]; dup {
				return pkgerrors.New(pkgerrors.CodeValidation, "duplicate variant value in group "+group.Name)
			}
			seen[key] = struct{}{}
		}
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
