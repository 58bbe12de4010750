package catalog

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Slug        string  `json:"slug" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=500"`
}

// VariantOptionInput is one purchasable option inside a group.
type VariantOptionInput struct {
	Value string          `json:"value" validate:"required,min=1,max=100"`
	Price decimal.Decimal `json:"price" validate:"required"`
}

// VariantGroupInput names a configuration dimension and its options.
type VariantGroupInput struct {
	Name    string               `json:"name" validate:"required,min=1,max=100"`
	Unit    *string              `json:"unit" validate:"omitempty,max=50"`
	Options []VariantOptionInput `json:"options" validate:"required,min=1,dive"`
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	CategoryID        uuid.UUID           `json:"category_id" validate:"required"`
	SellerID          *uuid.UUID          `json:"seller_id"`
	Name              string              `json:"name" validate:"required,min=1,max=200"`
	Slug              string              `json:"slug" validate:"required,min=1,max=200"`
	Description       *string             `json:"description" validate:"omitempty,max=5000"`
	BasePrice         decimal.Decimal     `json:"base_price" validate:"required"`
	ImageURL          *string             `json:"image_url" validate:"omitempty,url,max=500"`
	VariantGroups     []VariantGroupInput `json:"variant_groups" validate:"omitempty,dive"`
	RelatedProductIDs []uuid.UUID         `json:"related_product_ids" validate:"omitempty,max=50"`
	IsActive          *bool               `json:"is_active"`
}

// ListProductsInput configures the public product listing.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	Search     string
	ActiveOnly bool
	Limit      int
	Cursor     string
}

// buildVariantGroups assigns fresh ids to every group and option.
func buildVariantGroups(inputs []VariantGroupInput) []types.VariantGroup {
	return mergeVariantGroups(nil, inputs)
}

// mergeVariantGroups rebuilds the stored groups from the input while keeping
// the ids of groups and options that survive the edit. Cart lines reference
// option ids, so an unchanged option must keep its id across product updates.
// Groups match by name and options by value, both case-insensitively.
func mergeVariantGroups(existing []types.VariantGroup, inputs []VariantGroupInput) []types.VariantGroup {
	if len(inputs) == 0 {
		return nil
	}

	groupsByName := make(map[string]types.VariantGroup, len(existing))
	for _, group := range existing {
		groupsByName[normalizeSlug(group.Name)] = group
	}

	groups := make([]types.VariantGroup, 0, len(inputs))
	for _, in := range inputs {
		prior, known := groupsByName[normalizeSlug(in.Name)]

		group := types.VariantGroup{
			ID:      uuid.New(),
			Name:    in.Name,
			Unit:    in.Unit,
			Options: make([]types.VariantOption, 0, len(in.Options)),
		}
		optionsByValue := map[string]types.VariantOption{}
		if known {
			group.ID = prior.ID
			for _, opt := range prior.Options {
				optionsByValue[normalizeSlug(opt.Value)] = opt
			}
		}

		for _, opt := range in.Options {
			id := uuid.New()
			if priorOpt, ok := optionsByValue[normalizeSlug(opt.Value)]; ok {
				id = priorOpt.ID
			}
			group.Options = append(group.Options, types.VariantOption{
				ID:    id,
				Value: opt.Value,
				Price: opt.Price,
			})
		}
		groups = append(groups, group)
	}
	return groups
}

// relatedProductRefs converts the input ids to the stored uuid-array column,
// dropping duplicates and nil ids.
func relatedProductRefs(ids []uuid.UUID) pq.StringArray {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id.String())
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
