package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

type recordingSkips struct {
	reasons []string
}

func (r *recordingSkips) IncSnapshotSkip(reason string) {
	r.reasons = append(r.reasons, reason)
}

func snapshotProduct(name string, base string, groups []types.VariantGroup) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		Name:          name,
		BasePrice:     decimal.RequireFromString(base),
		VariantGroups: groups,
		IsActive:      true,
	}
}

func TestBuildSnapshotPricesVariantLines(t *testing.T) {
	optionID := uuid.New()
	product := snapshotProduct("Coffee", "5.00", []types.VariantGroup{
		{
			ID:   uuid.New(),
			Name: "Weight",
			Options: []types.VariantOption{
				{ID: optionID, Value: "1kg", Price: decimal.RequireFromString("9.90")},
			},
		},
	})
	items := []models.CartItem{
		{
			ID:              uuid.New(),
			ProductID:       product.ID,
			VariantOptionID: &optionID,
			Quantity:        3,
			CreatedAt:       time.Now(),
		},
	}

	skips := &recordingSkips{}
	snapshot := buildSnapshot(items, map[uuid.UUID]*models.Product{product.ID: product}, skips)

	if len(snapshot.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(snapshot.Lines))
	}
	line := snapshot.Lines[0]
	if line.DisplayName != "Coffee - 1kg" {
		t.Fatalf("unexpected display name %q", line.DisplayName)
	}
	if !line.UnitPrice.Equal(decimal.RequireFromString("9.90")) {
		t.Fatalf("unit price should come from the variant, got %s", line.UnitPrice)
	}
	if !line.LineTotal.Equal(decimal.RequireFromString("29.70")) {
		t.Fatalf("unexpected line total %s", line.LineTotal)
	}
	if !snapshot.Subtotal.Equal(line.LineTotal) {
		t.Fatalf("subtotal mismatch: %s", snapshot.Subtotal)
	}
	if len(skips.reasons) != 0 {
		t.Fatalf("no skips expected, got %v", skips.reasons)
	}
}

func TestBuildSnapshotUsesBasePriceWithoutVariant(t *testing.T) {
	product := snapshotProduct("Mug", "12.50", nil)
	items := []models.CartItem{
		{ID: uuid.New(), ProductID: product.ID, Quantity: 2},
	}

	snapshot := buildSnapshot(items, map[uuid.UUID]*models.Product{product.ID: product}, &recordingSkips{})

	if len(snapshot.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(snapshot.Lines))
	}
	if !snapshot.Subtotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected subtotal %s", snapshot.Subtotal)
	}
	if snapshot.Lines[0].DisplayName != "Mug" {
		t.Fatalf("unexpected display name %q", snapshot.Lines[0].DisplayName)
	}
}

func TestBuildSnapshotSkipsUnresolvableLines(t *testing.T) {
	staleOption := uuid.New()
	product := snapshotProduct("Coffee", "5.00", []types.VariantGroup{
		{
			ID:   uuid.New(),
			Name: "Weight",
			Options: []types.VariantOption{
				{ID: uuid.New(), Value: "500g", Price: decimal.NewFromInt(5)},
			},
		},
	})
	inactive := snapshotProduct("Old Mug", "3.00", nil)
	inactive.IsActive = false

	items := []models.CartItem{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1},
		{ID: uuid.New(), ProductID: inactive.ID, Quantity: 1},
		{ID: uuid.New(), ProductID: product.ID, VariantOptionID: &staleOption, Quantity: 1},
	}
	products := map[uuid.UUID]*models.Product{
		product.ID:  product,
		inactive.ID: inactive,
	}

	skips := &recordingSkips{}
	snapshot := buildSnapshot(items, products, skips)

	if len(snapshot.Lines) != 0 {
		t.Fatalf("all lines should be skipped, got %d", len(snapshot.Lines))
	}
	if snapshot.Skipped != 3 {
		t.Fatalf("expected 3 skips, got %d", snapshot.Skipped)
	}
	if !snapshot.Subtotal.IsZero() {
		t.Fatalf("subtotal should be zero, got %s", snapshot.Subtotal)
	}

	want := []string{skipReasonProductMissing, skipReasonProductInactive, skipReasonVariantMissing}
	if len(skips.reasons) != len(want) {
		t.Fatalf("reasons mismatch: %v", skips.reasons)
	}
	for i, reason := range want {
		if skips.reasons[i] != reason {
			t.Fatalf("reason %d: want %s got %s", i, reason, skips.reasons[i])
		}
	}
}

func TestBuildSnapshotDoesNotMutateVariantGroups(t *testing.T) {
	optionA := uuid.New()
	optionB := uuid.New()
	product := snapshotProduct("Coffee", "5.00", []types.VariantGroup{
		{
			ID:   uuid.New(),
			Name: "Weight",
			Options: []types.VariantOption{
				{ID: optionA, Value: "500g", Price: decimal.NewFromInt(5)},
				{ID: optionB, Value: "1kg", Price: decimal.NewFromInt(9)},
			},
		},
	})

	items := []models.CartItem{
		{ID: uuid.New(), ProductID: product.ID, VariantOptionID: &optionB, Quantity: 1},
	}
	buildSnapshot(items, map[uuid.UUID]*models.Product{product.ID: product}, &recordingSkips{})

	if product.VariantGroups[0].Options[0].Value != "500g" {
		t.Fatal("snapshot must not rewrite stored variant groups")
	}
}
