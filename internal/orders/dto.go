package orders

import (
	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	"github.com/bazaarhq/bazaar-backend/pkg/enums"
)

// CreateInput carries the fields required to assemble an order from the cart.
type CreateInput struct {
	Type          string     `json:"type" validate:"required,oneof=pickup delivery"`
	PaymentMethod string     `json:"payment_method" validate:"required,oneof=cash card"`
	AddressID     *uuid.UUID `json:"address_id"`
	Note          *string    `json:"note" validate:"omitempty,max=1000"`
}

// StatusInput carries an admin status append.
type StatusInput struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
}

// ListInput configures the order listing.
type ListInput struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
	Limit  int
	Cursor string
}

// Summary is the list projection of an order.
type Summary struct {
	Order        models.Order      `json:"order"`
	LatestStatus enums.OrderStatus `json:"latest_status"`
}

// Page wraps an order listing and its next-page cursor.
type Page struct {
	Items  []Summary `json:"items"`
	Cursor string    `json:"cursor"`
}
