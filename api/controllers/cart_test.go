package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaarhq/bazaar-backend/api/middleware"
	"github.com/bazaarhq/bazaar-backend/internal/cart"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
	"github.com/bazaarhq/bazaar-backend/pkg/types"
)

type fakeCartService struct {
	snapshot *cart.Snapshot
	addErr   error
	gotAdd   *cart.AddInput
	gotUser  uuid.UUID
}

func (f *fakeCartService) GetSnapshot(_ context.Context, userID uuid.UUID) (*cart.Snapshot, error) {
	f.gotUser = userID
	return f.snapshot, nil
}

func (f *fakeCartService) Add(_ context.Context, userID uuid.UUID, input cart.AddInput) (*cart.Line, error) {
	f.gotUser = userID
	f.gotAdd = &input
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &cart.Line{ProductID: input.ProductID, Quantity: input.Quantity}, nil
}

func (f *fakeCartService) UpdateLine(_ context.Context, userID, lineID uuid.UUID, input cart.UpdateInput) (*cart.Line, error) {
	f.gotUser = userID
	return &cart.Line{ID: lineID, Quantity: input.Quantity}, nil
}

func (f *fakeCartService) RemoveLine(_ context.Context, userID, lineID uuid.UUID) (*cart.Line, error) {
	f.gotUser = userID
	return &cart.Line{ID: lineID}, nil
}

func (f *fakeCartService) Clear(_ context.Context, userID uuid.UUID) error {
	f.gotUser = userID
	return nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithUserID(req.Context(), userID.String())
	return req.WithContext(ctx)
}

func TestGetCartReturnsSnapshot(t *testing.T) {
	svc := &fakeCartService{snapshot: &cart.Snapshot{Subtotal: decimal.RequireFromString("19.80")}}
	userID := uuid.New()

	w := httptest.NewRecorder()
	GetCart(svc, nil)(w, authedRequest(http.MethodGet, "/api/v1/cart", "", userID))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.gotUser != userID {
		t.Fatalf("expected snapshot scoped to %s, got %s", userID, svc.gotUser)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
}

func TestGetCartRequiresAuthContext(t *testing.T) {
	svc := &fakeCartService{snapshot: &cart.Snapshot{}}

	w := httptest.NewRecorder()
	GetCart(svc, nil)(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAddCartLineDecodesInput(t *testing.T) {
	svc := &fakeCartService{snapshot: &cart.Snapshot{}}
	userID := uuid.New()
	productID := uuid.New()

	body := `{"product_id":"` + productID.String() + `","quantity":3}`
	w := httptest.NewRecorder()
	AddCartLine(svc, nil)(w, authedRequest(http.MethodPost, "/api/v1/cart/items", body, userID))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotAdd == nil || svc.gotAdd.ProductID != productID || svc.gotAdd.Quantity != 3 {
		t.Fatalf("unexpected input %+v", svc.gotAdd)
	}
}

func TestAddCartLineRejectsMissingQuantity(t *testing.T) {
	svc := &fakeCartService{snapshot: &cart.Snapshot{}}

	body := `{"product_id":"` + uuid.NewString() + `"}`
	w := httptest.NewRecorder()
	AddCartLine(svc, nil)(w, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if svc.gotAdd != nil {
		t.Fatal("service must not be called for invalid input")
	}
}

func TestAddCartLineMapsServiceErrors(t *testing.T) {
	svc := &fakeCartService{addErr: pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")}

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	w := httptest.NewRecorder()
	AddCartLine(svc, nil)(w, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestRemoveCartLineParsesPathParam(t *testing.T) {
	svc := &fakeCartService{snapshot: &cart.Snapshot{}}
	userID := uuid.New()
	lineID := uuid.New()

	router := chi.NewRouter()
	router.Delete("/api/v1/cart/items/{lineID}", RemoveCartLine(svc, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/v1/cart/items/"+lineID.String(), "", userID))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
