package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating plus optional comment left by a user on a product.
// One review per user and product.
type Review struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID      `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	Rating    int            `gorm:"column:rating;not null"`
	Comment   *string        `gorm:"column:comment;type:text"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Review) TableName() string { return "reviews" }
