package types

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantOption is a single purchasable configuration inside a group, for
// example "500g" or "1kg" under a "Weight" group.
type VariantOption struct {
	ID    uuid.UUID       `json:"id"`
	Value string          `json:"value"`
	Price decimal.Decimal `json:"price"`
}

// VariantGroup names a dimension of product configuration and its options.
// Unit labels the dimension ("kg", "pieces") and is optional.
type VariantGroup struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Unit    *string         `json:"unit,omitempty"`
	Options []VariantOption `json:"options"`
}

// ResolvedVariant is the projection of one chosen option against its group.
// It is computed per request and never mutates the stored groups.
type ResolvedVariant struct {
	GroupID   uuid.UUID       `json:"group_id"`
	GroupName string          `json:"group_name"`
	GroupUnit *string         `json:"group_unit,omitempty"`
	OptionID  uuid.UUID       `json:"option_id"`
	Value     string          `json:"value"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DisplayName renders the human label used on order lines.
func (r ResolvedVariant) DisplayName(productName string) string {
	value := strings.TrimSpace(r.Value)
	if value == "" {
		return productName
	}
	return productName + " - " + value
}

// FindOption walks the groups looking for the option with the given id.
// The second return reports whether the option was found.
func FindOption(groups []VariantGroup, optionID uuid.UUID) (ResolvedVariant, bool) {
	for _, group := range groups {
		for _, opt := range group.Options {
			if opt.ID == optionID {
				return ResolvedVariant{
					GroupID:   group.ID,
					GroupName: group.Name,
					GroupUnit: group.Unit,
					OptionID:  opt.ID,
					Value:     opt.Value,
					UnitPrice: opt.Price,
				}, true
			}
		}
	}
	return ResolvedVariant{}, false
}
