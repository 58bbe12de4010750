package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a delivery destination owned by a user.
type Address struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	Label      string         `gorm:"column:label;type:text;not null"`
	Line1      string         `gorm:"column:line1;type:text;not null"`
	Line2      *string        `gorm:"column:line2;type:text"`
	City       string         `gorm:"column:city;type:text;not null"`
	Region     *string        `gorm:"column:region;type:text"`
	PostalCode *string        `gorm:"column:postal_code;type:text"`
	Country    string         `gorm:"column:country;type:text;not null"`
	Phone      *string        `gorm:"column:phone;type:text"`
	IsDefault  bool           `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Address) TableName() string { return "addresses" }
