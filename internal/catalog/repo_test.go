package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	"github.com/bazaarhq/bazaar-backend/pkg/pagination"
	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  base_price NUMERIC NOT NULL,
  image_url TEXT,
  variant_groups TEXT,
  seller_id TEXT,
  related_product_ids TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  rating_sum INTEGER NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:   uuid.New(),
		Name: "Coffee",
		Slug: "coffee",
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func TestProductRoundTripWithVariantGroups(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	category := seedCategory(t, db)

	unit := "kg"
	groups := []types.VariantGroup{
		{
			ID:   uuid.New(),
			Name: "Weight",
			Unit: &unit,
			Options: []types.VariantOption{
				{ID: uuid.New(), Value: "500g", Price: decimal.RequireFromString("5.50")},
				{ID: uuid.New(), Value: "1kg", Price: decimal.RequireFromString("9.90")},
			},
		},
	}
	seller := uuid.New()
	related := uuid.New()
	product := &models.Product{
		CategoryID:        category.ID,
		SellerID:          &seller,
		Name:              "House Blend",
		Slug:              "house-blend",
		BasePrice:         decimal.RequireFromString("5.50"),
		VariantGroups:     groups,
		RelatedProductIDs: pq.StringArray{related.String()},
		IsActive:          true,
	}
	require.NoError(t, repo.CreateProduct(ctx, product))

	loaded, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.VariantGroups, 1)
	assert.Equal(t, "Weight", loaded.VariantGroups[0].Name)
	require.NotNil(t, loaded.VariantGroups[0].Unit)
	assert.Equal(t, "kg", *loaded.VariantGroups[0].Unit)
	require.Len(t, loaded.VariantGroups[0].Options, 2)
	assert.True(t, loaded.VariantGroups[0].Options[1].Price.Equal(decimal.RequireFromString("9.90")))
	require.NotNil(t, loaded.SellerID)
	assert.Equal(t, seller, *loaded.SellerID)
	require.Len(t, loaded.RelatedProductIDs, 1)
	assert.Equal(t, related.String(), loaded.RelatedProductIDs[0])
}

func TestGetProductMissingReturnsNil(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	loaded, err := repo.GetProduct(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestListProductsCursorWalk(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	category := seedCategory(t, db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		product := &models.Product{
			ID:         uuid.New(),
			CategoryID: category.ID,
			Name:       "Item",
			Slug:       uuid.NewString(),
			BasePrice:  decimal.NewFromInt(int64(i + 1)),
			IsActive:   true,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(product).Error)
	}

	first, next, err := repo.ListProducts(ctx, listProductsParams{Limit: 3, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, next)

	second, final, err := repo.ListProducts(ctx, listProductsParams{
		Limit:      3,
		ActiveOnly: true,
		Cursor:     &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID},
	})
	require.NoError(t, err)
	assert.Nil(t, final)

	seen := map[uuid.UUID]struct{}{}
	for _, p := range append(first, second...) {
		_, dup := seen[p.ID]
		assert.False(t, dup, "pages must not overlap")
		seen[p.ID] = struct{}{}
	}
	assert.Len(t, seen, 5)
}

func TestListProductsFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	category := seedCategory(t, db)
	other := &models.Category{ID: uuid.New(), Name: "Tea", Slug: "tea"}
	require.NoError(t, db.Create(other).Error)

	active := &models.Product{ID: uuid.New(), CategoryID: category.ID, Name: "Dark Roast", Slug: "dark-roast", BasePrice: decimal.NewFromInt(7), IsActive: true}
	inactive := &models.Product{ID: uuid.New(), CategoryID: category.ID, Name: "Retired Roast", Slug: "retired", BasePrice: decimal.NewFromInt(7), IsActive: false}
	teaProduct := &models.Product{ID: uuid.New(), CategoryID: other.ID, Name: "Green Tea", Slug: "green-tea", BasePrice: decimal.NewFromInt(4), IsActive: true}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(inactive).Error)
	require.NoError(t, db.Create(teaProduct).Error)

	rows, _, err := repo.ListProducts(ctx, listProductsParams{CategoryID: &category.ID, ActiveOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)

	rows, _, err = repo.ListProducts(ctx, listProductsParams{Search: "tea", ActiveOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, teaProduct.ID, rows[0].ID)
}

func TestDeleteCategorySoftDeletes(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	category := seedCategory(t, db)

	deleted, err := repo.DeleteCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	loaded, err := repo.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Category{}).Where("id = ?", category.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "row should survive as soft deleted")
}
