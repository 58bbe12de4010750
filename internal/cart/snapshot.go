package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

// Snapshot skip reasons reported to metrics.
const (
	skipReasonProductMissing  = "product_missing"
	skipReasonProductInactive = "product_inactive"
	skipReasonVariantMissing  = "variant_missing"
)

// Line is a priced cart entry produced by the snapshot builder.
type Line struct {
	ID              uuid.UUID              `json:"id"`
	ProductID       uuid.UUID              `json:"product_id"`
	ProductName     string                 `json:"product_name"`
	ImageURL        *string                `json:"image_url,omitempty"`
	VariantOptionID *uuid.UUID             `json:"variant_option_id,omitempty"`
	Variant         *types.ResolvedVariant `json:"variant,omitempty"`
	DisplayName     string                 `json:"display_name"`
	UnitPrice       decimal.Decimal        `json:"unit_price"`
	Quantity        int                    `json:"quantity"`
	LineTotal       decimal.Decimal        `json:"line_total"`
	AddedAt         time.Time              `json:"added_at"`
}

// Snapshot is the priced view of a user's cart at one point in time.
type Snapshot struct {
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Skipped  int             `json:"skipped,omitempty"`
}

type skipRecorder interface {
	IncSnapshotSkip(reason string)
}

// nopSkipRecorder is used where a dropped line is handled by the caller and
// should not count against the snapshot skip metric.
type nopSkipRecorder struct{}

func (nopSkipRecorder) IncSnapshotSkip(string) {}

// buildSnapshot prices every stored line against the current catalog. Lines
// whose product or variant no longer resolves are dropped and counted, never
// silently priced at zero.
func buildSnapshot(items []models.CartItem, products map[uuid.UUID]*models.Product, skips skipRecorder) Snapshot {
	snapshot := Snapshot{
		Lines:    make([]Line, 0, len(items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range items {
		product := products[item.ProductID]
		if product == nil {
			snapshot.Skipped++
			skips.IncSnapshotSkip(skipReasonProductMissing)
			continue
		}
		if !product.IsActive {
			snapshot.Skipped++
			skips.IncSnapshotSkip(skipReasonProductInactive)
			continue
		}

		line := Line{
			ID:              item.ID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			ImageURL:        product.ImageURL,
			VariantOptionID: item.VariantOptionID,
			DisplayName:     product.Name,
			UnitPrice:       product.BasePrice,
			Quantity:        item.Quantity,
			AddedAt:         item.CreatedAt,
		}

		if item.VariantOptionID != nil {
			resolved, ok := types.FindOption(product.VariantGroups, *item.VariantOptionID)
			if !ok {
				snapshot.Skipped++
				skips.IncSnapshotSkip(skipReasonVariantMissing)
				continue
			}
			line.Variant = &resolved
			line.DisplayName = resolved.DisplayName(product.Name)
			line.UnitPrice = resolved.UnitPrice
		}

		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		snapshot.Subtotal = snapshot.Subtotal.Add(line.LineTotal)
		snapshot.Lines = append(snapshot.Lines, line)
	}

	return snapshot
}
