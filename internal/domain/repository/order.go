package repository

import (
	"context"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create persists the order together with its item snapshot.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// ConfirmPayment flips a Pending order to Paid exactly once. It returns
	// true when the transition was applied, false when the order was already
	// Paid with payment confirmed. Any other state is ErrInvalidState.
	ConfirmPayment(ctx context.Context, orderID string) (bool, error)
	// UpdateStatus validates the transition against the persisted status and
	// applies it, or fails with ErrIllegalTransition.
	UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) error
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// ListDeliveredBetween returns delivered, payment-confirmed orders
	// created in [start, end).
	ListDeliveredBetween(ctx context.Context, start, end time.Time) ([]model.Order, error)
	// SelectPendingOlderThan returns Pending orders whose payment intent has
	// been open for at least the given age.
	SelectPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]model.Order, error)
}
