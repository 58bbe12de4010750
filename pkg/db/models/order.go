package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bazaarhq/bazaar-backend/pkg/enums"
)

// Order is the assembled purchase record. Money columns are immutable
// snapshots taken at creation time.
type Order struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Type          enums.OrderType     `gorm:"column:type;type:text;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	AddressID     *uuid.UUID          `gorm:"column:address_id;type:uuid"`
	AddressText   *string             `gorm:"column:address_text;type:text"`
	Note          *string             `gorm:"column:note;type:text"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee   decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt      `gorm:"column:deleted_at;index"`

	Lines        []OrderLine        `gorm:"foreignKey:OrderID"`
	StatusEvents []OrderStatusEvent `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// LatestStatus returns the most recently appended status event, pending when
// the history is unexpectedly empty.
func (o Order) LatestStatus() enums.OrderStatus {
	if len(o.StatusEvents) == 0 {
		return enums.OrderStatusPending
	}
	latest := o.StatusEvents[0]
	for _, ev := range o.StatusEvents[1:] {
		if ev.CreatedAt.After(latest.CreatedAt) {
			latest = ev
		}
	}
	return latest.Status
}
