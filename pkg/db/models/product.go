package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

// Product is a catalog item. Variant groups are stored as a jsonb document
// and projected per request, never mutated in place. Related products are a
// uuid array of merchandising suggestions, not a foreign-key constraint.
type Product struct {
	ID                uuid.UUID            `gorm:"type:uuid;primaryKey"`
	CategoryID        uuid.UUID            `gorm:"column:category_id;type:uuid;not null;index"`
	SellerID          *uuid.UUID           `gorm:"column:seller_id;type:uuid;index"`
	Name              string               `gorm:"column:name;type:text;not null"`
	Slug              string               `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Description       *string              `gorm:"column:description;type:text"`
	BasePrice         decimal.Decimal      `gorm:"column:base_price;type:numeric(12,2);not null"`
	ImageURL          *string              `gorm:"column:image_url;type:text"`
	VariantGroups     []types.VariantGroup `gorm:"column:variant_groups;type:jsonb;serializer:json"`
	RelatedProductIDs pq.StringArray       `gorm:"column:related_product_ids;type:uuid[]"`
	IsActive          bool                 `gorm:"column:is_active;not null;default:true"`
	RatingSum         int64                `gorm:"column:rating_sum;not null;default:0"`
	RatingCount       int64                `gorm:"column:rating_count;not null;default:0"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt       `gorm:"column:deleted_at;index"`
}

func (Product) TableName() string { return "products" }

// AverageRating derives the mean review score, zero when unreviewed.
func (p Product) AverageRating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingSum) / float64(p.RatingCount)
}
