package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bazaarhq/bazaar-backend/internal/addresses"
	"github.com/bazaarhq/bazaar-backend/internal/cart"
	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	"github.com/bazaarhq/bazaar-backend/pkg/enums"
	pkgerrors "github.com/bazaarhq/bazaar-backend/pkg/errors"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"github.com/bazaarhq/bazaar-backend/pkg/pagination"
)

// txRunner matches db.Client.WithTx.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// statusNotifier pushes an in-app notification when an order status changes.
type statusNotifier interface {
	NotifyOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status enums.OrderStatus) error
}

// Service defines order assembly and lifecycle operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, input ListInput) (*Page, error)
	AppendStatus(ctx context.Context, actorID, orderID uuid.UUID, input StatusInput) (*models.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo      Repository
	cart      cart.Service
	addresses addresses.Service
	pricer    DeliveryPricer
	notifier  statusNotifier
	tx        txRunner
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires order dependencies.
func NewService(
	repo Repository,
	cartSvc cart.Service,
	addressSvc addresses.Service,
	pricer DeliveryPricer,
	notifier statusNotifier,
	tx txRunner,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if cartSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service required")
	}
	if addressSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "addresses service required")
	}
	if pricer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "delivery pricer required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:      repo,
		cart:      cartSvc,
		addresses: addressSvc,
		pricer:    pricer,
		notifier:  notifier,
		tx:        tx,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Create assembles an order from the user's current cart. Money amounts are
// frozen at creation. The cart is left untouched so the buyer can reorder.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	orderType := enums.OrderType(input.Type)
	if !orderType.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	paymentMethod := enums.PaymentMethod(input.PaymentMethod)
	if !paymentMethod.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	snapshot, err := s.cart.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		UserID:        userID,
		Type:          orderType,
		PaymentMethod: paymentMethod,
		Note:          input.Note,
		Subtotal:      snapshot.Subtotal,
		DeliveryFee:   decimal.Zero,
	}

	if orderType == enums.OrderTypeDelivery {
		if input.AddressID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require an address")
		}
		address, err := s.addresses.Get(ctx, userID, *input.AddressID)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address not found")
			}
			return nil, err
		}
		fee, err := s.pricer.Fee(ctx, address, snapshot.Subtotal)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "price delivery")
		}
		text := addresses.FormatForDelivery(address)
		order.AddressID = &address.ID
		order.AddressText = &text
		order.DeliveryFee = fee
	}

	order.Total = order.Subtotal.Add(order.DeliveryFee)

	lines := make([]models.OrderLine, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, models.OrderLine{
			ProductID:       line.ProductID,
			VariantOptionID: line.VariantOptionID,
			Name:            line.DisplayName,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Quantity,
			LineTotal:       line.LineTotal,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := repo.CreateLines(ctx, lines); err != nil {
			return err
		}
		return repo.AppendStatus(ctx, &models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  enums.OrderStatusPending,
			ActorID: &userID,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	s.notifyStatus(ctx, userID, order.ID, enums.OrderStatusPending)

	return s.reload(ctx, order.ID)
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !isAdmin && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*Page, error) {
	params := listOrdersParams{
		UserID:       input.UserID,
		LatestStatus: input.Status,
		Limit:        input.Limit,
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &Page{Items: make([]Summary, 0, len(rows))}
	for _, order := range rows {
		page.Items = append(page.Items, Summary{
			Order:        order,
			LatestStatus: order.LatestStatus(),
		})
	}
	if next != nil {
		page.Cursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

// AppendStatus records a new lifecycle entry. Any known status may be appended
// at any time; the history keeps every transition.
func (s *service) AppendStatus(ctx context.Context, actorID, orderID uuid.UUID, input StatusInput) (*models.Order, error) {
	status, ok := enums.ParseOrderStatus(input.Status)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	event := &models.OrderStatusEvent{
		OrderID: order.ID,
		Status:  status,
		Note:    input.Note,
	}
	if actorID != uuid.Nil {
		event.ActorID = &actorID
	}
	if err := s.repo.AppendStatus(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status")
	}

	s.notifyStatus(ctx, order.UserID, order.ID, status)

	return s.reload(ctx, order.ID)
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	deleted, err := s.repo.SoftDelete(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (s *service) reload(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order vanished after write")
	}
	return order, nil
}

// notifyStatus is best effort. A failed notification never fails the order write.
func (s *service) notifyStatus(ctx context.Context, userID, orderID uuid.UUID, status enums.OrderStatus) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOrderStatus(ctx, userID, orderID, status); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID.String(),
			"status":   status.String(),
		}), "order status notification failed")
	}
}
