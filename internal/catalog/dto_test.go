package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

func TestMergeVariantGroupsKeepsIdsForSurvivingOptions(t *testing.T) {
	groupID := uuid.New()
	smallID := uuid.New()
	largeID := uuid.New()
	existing := []types.VariantGroup{
		{
			ID:   groupID,
			Name: "Weight",
			Options: []types.VariantOption{
				{ID: smallID, Value: "500g", Price: decimal.RequireFromString("5.50")},
				{ID: largeID, Value: "1kg", Price: decimal.RequireFromString("9.90")},
			},
		},
	}

	merged := mergeVariantGroups(existing, []VariantGroupInput{
		{
			Name: "Weight",
			Options: []VariantOptionInput{
				{Value: "500g", Price: decimal.RequireFromString("5.50")},
				{Value: "1kg", Price: decimal.RequireFromString("11.00")},
				{Value: "2kg", Price: decimal.RequireFromString("19.00")},
			},
		},
	})

	if len(merged) != 1 {
		t.Fatalf("expected one group, got %d", len(merged))
	}
	group := merged[0]
	if group.ID != groupID {
		t.Fatal("surviving group must keep its id")
	}
	if len(group.Options) != 3 {
		t.Fatalf("expected three options, got %d", len(group.Options))
	}
	if group.Options[0].ID != smallID {
		t.Fatal("unchanged option must keep its id")
	}
	if group.Options[1].ID != largeID {
		t.Fatal("a price edit must not change the option id")
	}
	if !group.Options[1].Price.Equal(decimal.RequireFromString("11.00")) {
		t.Fatalf("price edit must apply, got %s", group.Options[1].Price)
	}
	if group.Options[2].ID == uuid.Nil || group.Options[2].ID == smallID || group.Options[2].ID == largeID {
		t.Fatal("new option must get a fresh id")
	}
}

func TestMergeVariantGroupsMatchesValuesCaseInsensitively(t *testing.T) {
	optionID := uuid.New()
	existing := []types.VariantGroup{
		{
			ID:      uuid.New(),
			Name:    "Size",
			Options: []types.VariantOption{{ID: optionID, Value: "Large", Price: decimal.NewFromInt(5)}},
		},
	}

	merged := mergeVariantGroups(existing, []VariantGroupInput{
		{Name: "size", Options: []VariantOptionInput{{Value: "LARGE", Price: decimal.NewFromInt(5)}}},
	})

	if merged[0].ID != existing[0].ID || merged[0].Options[0].ID != optionID {
		t.Fatal("name and value matching must ignore case")
	}
}

func TestBuildVariantGroupsAssignsIdsAndUnit(t *testing.T) {
	unit := "kg"
	groups := buildVariantGroups([]VariantGroupInput{
		{
			Name:    "Weight",
			Unit:    &unit,
			Options: []VariantOptionInput{{Value: "1kg", Price: decimal.NewFromInt(9)}},
		},
	})

	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	if groups[0].ID == uuid.Nil || groups[0].Options[0].ID == uuid.Nil {
		t.Fatal("ids must be assigned")
	}
	if groups[0].Unit == nil || *groups[0].Unit != "kg" {
		t.Fatalf("unit must carry through, got %v", groups[0].Unit)
	}
}

func TestRelatedProductRefsDropsDuplicatesAndNil(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	refs := relatedProductRefs([]uuid.UUID{a, uuid.Nil, b, a})
	if len(refs) != 2 || refs[0] != a.String() || refs[1] != b.String() {
		t.Fatalf("expected [%s %s], got %v", a, b, refs)
	}

	if relatedProductRefs(nil) != nil {
		t.Fatal("empty input must stay nil")
	}
}
