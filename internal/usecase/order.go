package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/domain/repository"
)

// PaymentGateway opens payment intents with the external processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, receipt string) (string, error)
}

// SignatureVerifier recomputes and checks payment confirmation signatures.
type SignatureVerifier interface {
	Verify(orderRef, paymentRef, signature string) bool
}

// Notifier delivers a message to an address. Failures must never affect order
// state, so callers treat it as fire-and-forget.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

const notifyTimeout = 5 * time.Second

// OrderUseCase owns the order lifecycle: creation with payment intent,
// idempotent payment confirmation, and operator-driven status transitions.
type OrderUseCase struct {
	orders      repository.OrderRepository
	carts       repository.CartRepository
	catalog     repository.CatalogRepository
	gateway     PaymentGateway
	verifier    SignatureVerifier
	notifier    Notifier
	deliveryFee int64
	logger      *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	gateway PaymentGateway,
	verifier SignatureVerifier,
	notifier Notifier,
	deliveryFee int64,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:      orders,
		carts:       carts,
		catalog:     catalog,
		gateway:     gateway,
		verifier:    verifier,
		notifier:    notifier,
		deliveryFee: deliveryFee,
		logger:      logger,
	}
}

// Create snapshots the user's cart into a new Pending order, opens a payment
// intent for the exact amount, and clears the cart. The intent is opened
// before the order row is written, so a processor failure never leaves a
// Pending order without a payable intent. Cart clearing is best-effort: the
// order row is the source of truth for what was bought.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, address model.Address) (*model.Order, error) {
	if address.Line1 == "" || address.City == "" {
		return nil, fmt.Errorf("%w: delivery address is incomplete", domainErrors.ErrValidation)
	}

	cart, err := u.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domainErrors.ErrValidation)
	}

	itemIDs := make([]string, 0, len(cart))
	for itemID := range cart {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Strings(itemIDs)

	catalogItems, err := u.catalog.GetByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(itemIDs))
	var amount int64
	for _, itemID := range itemIDs {
		catalogItem, ok := catalogItems[itemID]
		if !ok {
			return nil, fmt.Errorf("%w: catalog item %s no longer exists", domainErrors.ErrValidation, itemID)
		}
		item := model.OrderItem{
			ItemID:    catalogItem.ID,
			Name:      catalogItem.Name,
			UnitPrice: catalogItem.UnitPrice,
			Quantity:  cart[itemID],
		}
		items = append(items, item)
		amount += item.Subtotal()
	}
	amount += u.deliveryFee

	orderID := uuid.NewString()
	processorRef, err := u.gateway.CreateOrder(ctx, amount, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment intent: %v", domainErrors.ErrDependencyFailure, err)
	}

	order := &model.Order{
		ID:                orderID,
		UserID:            userID,
		Items:             items,
		Amount:            amount,
		Address:           address,
		Status:            model.OrderStatusPending,
		ProcessorOrderRef: processorRef,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := u.carts.Clear(ctx, userID); err != nil {
		u.logger.Warn("cart clear after order creation failed",
			slog.String("order", order.ID), slog.String("error", err.Error()))
	}

	u.notify(order.Address.Email, "Order received",
		fmt.Sprintf("Order %s has been placed. Complete the payment to start processing.", order.ID))

	return order, nil
}

// ConfirmPayment applies a signed payment confirmation exactly once. A
// duplicate confirmation of an already Paid order succeeds without
// re-applying; a tampered signature never changes state.
func (u *OrderUseCase) ConfirmPayment(ctx context.Context, orderID, orderRef, paymentRef, signature string) (*model.Order, error) {
	if !u.verifier.Verify(orderRef, paymentRef, signature) {
		u.logger.Warn("payment signature mismatch",
			slog.String("order", orderID),
			slog.String("processor_order_ref", orderRef),
			slog.Bool("security", true))
		return nil, domainErrors.ErrSignatureMismatch
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ProcessorOrderRef != orderRef {
		return nil, fmt.Errorf("%w: confirmation does not match order payment intent", domainErrors.ErrValidation)
	}

	applied, err := u.orders.ConfirmPayment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// A duplicate against an order the operator already advanced keeps the
	// advanced status in the response.
	if order.Status == model.OrderStatusPending {
		order.Status = model.OrderStatusPaid
	}
	order.PaymentConfirmed = true

	if applied {
		u.notify(order.Address.Email, "Payment received",
			fmt.Sprintf("Payment for order %s has been confirmed.", order.ID))
	}
	return order, nil
}

// SetStatus performs an operator-driven lifecycle transition. Validation
// happens against the persisted status inside the repository, so concurrent
// operators cannot race into an inconsistent terminal state.
func (u *OrderUseCase) SetStatus(ctx context.Context, orderID string, next model.OrderStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, next)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := u.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return err
	}

	u.notify(order.Address.Email, "Order update",
		fmt.Sprintf("Order %s is now %s.", order.ID, next))
	return nil
}

// GetByID loads a single order.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// ListByUser returns the user's paid, non-cancelled orders, Delivered last.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListAll returns every order, newest first.
func (u *OrderUseCase) ListAll(ctx context.Context) ([]model.Order, error) {
	return u.orders.ListAll(ctx)
}

// PendingOlderThan returns stale Pending orders for payment reconciliation.
func (u *OrderUseCase) PendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]model.Order, error) {
	return u.orders.SelectPendingOlderThan(ctx, age, limit)
}

func (u *OrderUseCase) notify(to, subject, body string) {
	if to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := u.notifier.Send(ctx, to, subject, body); err != nil {
			u.logger.Error("notification failed",
				slog.String("to", to), slog.String("error", err.Error()))
		}
	}()
}
