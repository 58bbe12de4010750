package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaarhq/bazaar-backend/internal/catalog"
	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

type fakeCartRepo struct {
	lines map[uuid.UUID]*models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: map[uuid.UUID]*models.CartItem{}}
}

func (f *fakeCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, line := range f.lines {
		if line.UserID == userID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func sameOption(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (f *fakeCartRepo) GetLine(_ context.Context, userID, productID uuid.UUID, variantOptionID *uuid.UUID) (*models.CartItem, error) {
	for _, line := range f.lines {
		if line.UserID == userID && line.ProductID == productID && sameOption(line.VariantOptionID, variantOptionID) {
			return line, nil
		}
	}
	return nil, nil
}

func (f *fakeCartRepo) GetLineByID(_ context.Context, userID, lineID uuid.UUID) (*models.CartItem, error) {
	line, ok := f.lines[lineID]
	if !ok || line.UserID != userID {
		return nil, nil
	}
	return line, nil
}

func (f *fakeCartRepo) Create(_ context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.lines[item.ID] = item
	return nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, lineID uuid.UUID, quantity int) error {
	if line, ok := f.lines[lineID]; ok {
		line.Quantity = quantity
	}
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, userID, lineID uuid.UUID) (bool, error) {
	line, ok := f.lines[lineID]
	if !ok || line.UserID != userID {
		return false, nil
	}
	delete(f.lines, lineID)
	return true, nil
}

func (f *fakeCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	for id, line := range f.lines {
		if line.UserID == userID {
			delete(f.lines, id)
		}
	}
	return nil
}

type fakeCatalogService struct {
	catalog.Service
	products map[uuid.UUID]*models.Product
}

func (f *fakeCatalogService) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (f *fakeCatalogService) GetProductsByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

type nopSkips struct{}

func (nopSkips) IncSnapshotSkip(string) {}

func cartTestProduct(groups []types.VariantGroup) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		Name:          "Coffee",
		BasePrice:     decimal.RequireFromString("5.00"),
		VariantGroups: groups,
		IsActive:      true,
	}
}

func newCartService(t *testing.T, repo Repository, products ...*models.Product) Service {
	t.Helper()
	byID := map[uuid.UUID]*models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	svc, err := NewService(repo, &fakeCatalogService{products: byID}, nopSkips{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddMergesQuantityOnSameVariant(t *testing.T) {
	optionID := uuid.New()
	product := cartTestProduct([]types.VariantGroup{
		{
			ID:   uuid.New(),
			Name: "Weight",
			Options: []types.VariantOption{
				{ID: optionID, Value: "1kg", Price: decimal.RequireFromString("9.90")},
			},
		},
	})
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, product)
	userID := uuid.New()

	first, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, VariantOptionID: &optionID, Quantity: 2})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	merged, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, VariantOptionID: &optionID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if merged.ID != first.ID {
		t.Fatal("adds on the same variant should merge into one line")
	}
	if merged.Quantity != 5 {
		t.Fatalf("quantities should sum, got %d", merged.Quantity)
	}
	snapshot, err := svc.GetSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot.Lines) != 1 {
		t.Fatalf("cart should hold one line, got %d", len(snapshot.Lines))
	}
}

func TestAddDifferentVariantsCreateSeparateLines(t *testing.T) {
	optionA := uuid.New()
	optionB := uuid.New()
	product := cartTestProduct([]types.VariantGroup{
		{
			ID:   uuid.New(),
			Name: "Weight",
			Options: []types.VariantOption{
				{ID: optionA, Value: "500g", Price: decimal.NewFromInt(5)},
				{ID: optionB, Value: "1kg", Price: decimal.NewFromInt(9)},
			},
		},
	})
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, product)
	userID := uuid.New()

	if _, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, VariantOptionID: &optionA, Quantity: 1}); err != nil {
		t.Fatalf("add A: %v", err)
	}
	if _, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, VariantOptionID: &optionB, Quantity: 1}); err != nil {
		t.Fatalf("add B: %v", err)
	}
	snapshot, err := svc.GetSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot.Lines) != 2 {
		t.Fatalf("different variants must not merge, got %d lines", len(snapshot.Lines))
	}
}

func TestAddRejectsUnknownVariant(t *testing.T) {
	product := cartTestProduct([]types.VariantGroup{
		{
			ID:      uuid.New(),
			Name:    "Weight",
			Options: []types.VariantOption{{ID: uuid.New(), Value: "500g", Price: decimal.NewFromInt(5)}},
		},
	})
	svc := newCartService(t, newFakeCartRepo(), product)

	unknown := uuid.New()
	_, err := svc.Add(context.Background(), uuid.New(), AddInput{ProductID: product.ID, VariantOptionID: &unknown, Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddRequiresVariantWhenProductHasGroups(t *testing.T) {
	product := cartTestProduct([]types.VariantGroup{
		{
			ID:      uuid.New(),
			Name:    "Weight",
			Options: []types.VariantOption{{ID: uuid.New(), Value: "500g", Price: decimal.NewFromInt(5)}},
		},
	})
	svc := newCartService(t, newFakeCartRepo(), product)

	_, err := svc.Add(context.Background(), uuid.New(), AddInput{ProductID: product.ID, Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddRejectsQuantityOverMax(t *testing.T) {
	product := cartTestProduct(nil)
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, product)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: MaxLineQuantity + 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	snapshot, err := svc.GetSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot.Lines) != 0 {
		t.Fatal("a rejected add must not create a line")
	}
}

func TestAddRejectsMergePastMax(t *testing.T) {
	product := cartTestProduct(nil)
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, product)
	userID := uuid.New()

	line, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: MaxLineQuantity})
	if err != nil {
		t.Fatalf("add at the cap: %v", err)
	}
	if line.Quantity != MaxLineQuantity {
		t.Fatalf("the cap itself is a valid quantity, got %d", line.Quantity)
	}

	_, err = svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	snapshot, err := svc.GetSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot.Lines) != 1 || snapshot.Lines[0].Quantity != MaxLineQuantity {
		t.Fatalf("a rejected merge must leave the line untouched, got %+v", snapshot.Lines)
	}
}

func TestUpdateLineRejectsQuantityOverMax(t *testing.T) {
	product := cartTestProduct(nil)
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, product)
	userID := uuid.New()

	added, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err = svc.UpdateLine(context.Background(), userID, added.ID, UpdateInput{Quantity: MaxLineQuantity + 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	snapshot, err := svc.GetSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot.Lines) != 1 || snapshot.Lines[0].Quantity != 2 {
		t.Fatalf("a rejected update must leave the quantity untouched, got %+v", snapshot.Lines)
	}
}

func TestUpdateLineReplacesQuantity(t *testing.T) {
	product := cartTestProduct(nil)
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, product)
	userID := uuid.New()

	added, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, err := svc.UpdateLine(context.Background(), userID, added.ID, UpdateInput{Quantity: 7})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 7 {
		t.Fatalf("update should replace, not merge, got %d", updated.Quantity)
	}
	if !updated.LineTotal.Equal(decimal.RequireFromString("35.00")) {
		t.Fatalf("line total should follow the new quantity, got %s", updated.LineTotal)
	}
}

func TestUpdateMissingLineIsNotFound(t *testing.T) {
	svc := newCartService(t, newFakeCartRepo(), cartTestProduct(nil))
	_, err := svc.UpdateLine(context.Background(), uuid.New(), uuid.New(), UpdateInput{Quantity: 2})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveLineAndClear(t *testing.T) {
	product := cartTestProduct(nil)
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, product)
	userID := uuid.New()

	added, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := svc.RemoveLine(context.Background(), userID, added.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.ID != added.ID || removed.Quantity != 1 {
		t.Fatalf("removed line should be returned, got %+v", removed)
	}
	after, err := svc.GetSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(after.Lines) != 0 {
		t.Fatalf("cart should be empty, got %d lines", len(after.Lines))
	}

	if _, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	final, err := svc.GetSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(final.Lines) != 0 {
		t.Fatal("clear should remove every line")
	}
}

func TestAddInactiveProductRejected(t *testing.T) {
	product := cartTestProduct(nil)
	product.IsActive = false
	svc := newCartService(t, newFakeCartRepo(), product)

	_, err := svc.Add(context.Background(), uuid.New(), AddInput{ProductID: product.ID, Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
