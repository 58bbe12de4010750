package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
)

// DeliveryPricer computes the delivery fee for an assembled order.
type DeliveryPricer interface {
	Fee(ctx context.Context, address *models.Address, subtotal decimal.Decimal) (decimal.Decimal, error)
}

// FlatDeliveryPricer charges a fixed fee for every delivery order.
type FlatDeliveryPricer struct {
	Amount decimal.Decimal
}

// NewFlatDeliveryPricer parses the configured fee, falling back to zero on
// malformed input.
func NewFlatDeliveryPricer(raw string) FlatDeliveryPricer {
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		amount = decimal.Zero
	}
	return FlatDeliveryPricer{Amount: amount}
}

func (p FlatDeliveryPricer) Fee(context.Context, *models.Address, decimal.Decimal) (decimal.Decimal, error) {
	return p.Amount, nil
}
