package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification stores in-app notification payloads scoped to users.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Title     string     `gorm:"column:title;type:text;not null"`
	Message   string     `gorm:"column:message;type:text;not null"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}

func (Notification) TableName() string { return "notifications" }
