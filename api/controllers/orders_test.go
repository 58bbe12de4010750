package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/api/middleware"
	"github.com/bazaarhq/bazaar-backend/internal/orders"
	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	"github.com/bazaarhq/bazaar-backend/pkg/enums"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
)

type fakeOrdersService struct {
	order     *models.Order
	page      *orders.Page
	createErr error

	gotCreate *orders.CreateInput
	gotStatus *orders.StatusInput
	gotList   *orders.ListInput
	gotAdmin  bool
}

func (f *fakeOrdersService) Create(_ context.Context, _ uuid.UUID, input orders.CreateInput) (*models.Order, error) {
	f.gotCreate = &input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.order, nil
}

func (f *fakeOrdersService) Get(_ context.Context, _ uuid.UUID, isAdmin bool, _ uuid.UUID) (*models.Order, error) {
	f.gotAdmin = isAdmin
	return f.order, nil
}

func (f *fakeOrdersService) List(_ context.Context, input orders.ListInput) (*orders.Page, error) {
	f.gotList = &input
	return f.page, nil
}

func (f *fakeOrdersService) AppendStatus(_ context.Context, _, _ uuid.UUID, input orders.StatusInput) (*models.Order, error) {
	f.gotStatus = &input
	return f.order, nil
}

func (f *fakeOrdersService) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func TestCreateOrderDecodesInput(t *testing.T) {
	svc := &fakeOrdersService{order: &models.Order{ID: uuid.New()}}

	body := `{"type":"pickup","payment_method":"cash"}`
	w := httptest.NewRecorder()
	CreateOrder(svc, nil)(w, authedRequest(http.MethodPost, "/api/v1/orders", body, uuid.New()))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotCreate == nil || svc.gotCreate.Type != "pickup" || svc.gotCreate.PaymentMethod != "cash" {
		t.Fatalf("unexpected input %+v", svc.gotCreate)
	}
}

func TestCreateOrderRejectsUnknownType(t *testing.T) {
	svc := &fakeOrdersService{}

	body := `{"type":"teleport","payment_method":"cash"}`
	w := httptest.NewRecorder()
	CreateOrder(svc, nil)(w, authedRequest(http.MethodPost, "/api/v1/orders", body, uuid.New()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if svc.gotCreate != nil {
		t.Fatal("service must not be called for invalid input")
	}
}

func TestCreateOrderMapsEmptyCartError(t *testing.T) {
	svc := &fakeOrdersService{createErr: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}

	body := `{"type":"pickup","payment_method":"cash"}`
	w := httptest.NewRecorder()
	CreateOrder(svc, nil)(w, authedRequest(http.MethodPost, "/api/v1/orders", body, uuid.New()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListMyOrdersScopesToUserAndStatus(t *testing.T) {
	svc := &fakeOrdersService{page: &orders.Page{}}
	userID := uuid.New()

	w := httptest.NewRecorder()
	ListMyOrders(svc, nil)(w, authedRequest(http.MethodGet, "/api/v1/orders?status=accepted", "", userID))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.gotList == nil || svc.gotList.UserID == nil || *svc.gotList.UserID != userID {
		t.Fatalf("listing must be scoped to the caller, got %+v", svc.gotList)
	}
	if svc.gotList.Status == nil || *svc.gotList.Status != enums.OrderStatusAccepted {
		t.Fatalf("status filter not forwarded, got %+v", svc.gotList.Status)
	}
}

func TestListMyOrdersRejectsUnknownStatus(t *testing.T) {
	svc := &fakeOrdersService{page: &orders.Page{}}

	w := httptest.NewRecorder()
	ListMyOrders(svc, nil)(w, authedRequest(http.MethodGet, "/api/v1/orders?status=shipped", "", uuid.New()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetOrderForwardsAdminFlag(t *testing.T) {
	svc := &fakeOrdersService{order: &models.Order{ID: uuid.New()}}
	router := chi.NewRouter()
	router.Get("/api/v1/orders/{orderID}", GetOrder(svc, nil))

	req := authedRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), "", uuid.New())
	req = req.WithContext(middleware.WithRole(req.Context(), string(enums.RoleAdmin)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !svc.gotAdmin {
		t.Fatal("admin flag should be forwarded to the service")
	}
}

func TestAppendOrderStatusDecodesInput(t *testing.T) {
	svc := &fakeOrdersService{order: &models.Order{ID: uuid.New()}}
	router := chi.NewRouter()
	router.Post("/api/v1/admin/orders/{orderID}/status", AppendOrderStatus(svc, nil))

	body := `{"status":"accepted","note":"on it"}`
	req := authedRequest(http.MethodPost, "/api/v1/admin/orders/"+uuid.NewString()+"/status", body, uuid.New())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotStatus == nil || svc.gotStatus.Status != "accepted" {
		t.Fatalf("unexpected input %+v", svc.gotStatus)
	}
}
