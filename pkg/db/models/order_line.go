package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is a frozen copy of a cart line at the moment the order was
// assembled. Name carries the variant label, LineTotal the extended price.
type OrderLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantOptionID *uuid.UUID      `gorm:"column:variant_option_id;type:uuid"`
	Name            string          `gorm:"column:name;type:text;not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	LineTotal       decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderLine) TableName() string { return "order_lines" }
