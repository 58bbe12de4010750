package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/pkg/enums"
)

// OrderStatusEvent is an append-only entry in an order's status history.
type OrderStatusEvent struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	ActorID   *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	Note      *string           `gorm:"column:note;type:text"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}

func (OrderStatusEvent) TableName() string { return "order_status_events" }
