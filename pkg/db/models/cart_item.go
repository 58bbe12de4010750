package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's cart. Uniqueness is enforced on the
// (user, product, variant option) triple so repeated adds merge by quantity.
type CartItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_product_option"`
	ProductID       uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_user_product_option"`
	VariantOptionID *uuid.UUID `gorm:"column:variant_option_id;type:uuid;uniqueIndex:idx_cart_user_product_option"`
	Quantity        int        `gorm:"column:quantity;not null"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
