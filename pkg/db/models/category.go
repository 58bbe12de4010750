package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for browsing.
type Category struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"column:name;type:text;not null;uniqueIndex"`
	Slug        string         `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Description *string        `gorm:"column:description;type:text"`
	ImageURL    *string        `gorm:"column:image_url;type:text"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Category) TableName() string { return "categories" }
