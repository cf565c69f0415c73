package app

import (
	"context"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/pkg/auth"
	"github.com/greenbasket/greenbasket/internal/usecase"
)

// PaymentProvider exposes the processor-side payment lookup used during
// reconciliation.
type PaymentProvider interface {
	FetchPayment(ctx context.Context, orderRef string) (*model.Payment, error)
}

// Pinger reports storage connectivity.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// CommerceFacade aggregates the engine's use cases behind one surface for the
// HTTP layer and the reconciliation worker.
type CommerceFacade struct {
	tokens   auth.Strategy
	cart     *usecase.CartUseCase
	orders   *usecase.OrderUseCase
	ratings  *usecase.RatingUseCase
	sales    *usecase.SalesUseCase
	payments PaymentProvider
	health   Pinger
}

// NewCommerceFacade constructs CommerceFacade.
func NewCommerceFacade(
	tokens auth.Strategy,
	cart *usecase.CartUseCase,
	orders *usecase.OrderUseCase,
	ratings *usecase.RatingUseCase,
	sales *usecase.SalesUseCase,
	payments PaymentProvider,
	health Pinger,
) *CommerceFacade {
	return &CommerceFacade{
		tokens:   tokens,
		cart:     cart,
		orders:   orders,
		ratings:  ratings,
		sales:    sales,
		payments: payments,
		health:   health,
	}
}

func (f *CommerceFacade) ParseToken(token string) (*auth.Claims, error) {
	return f.tokens.ParseToken(token)
}

func (f *CommerceFacade) Cart(ctx context.Context, userID int64) (model.Cart, error) {
	return f.cart.Get(ctx, userID)
}

func (f *CommerceFacade) AddToCart(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	return f.cart.Add(ctx, userID, itemID)
}

func (f *CommerceFacade) RemoveFromCart(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	return f.cart.Remove(ctx, userID, itemID)
}

func (f *CommerceFacade) ClearCart(ctx context.Context, userID int64) error {
	return f.cart.Clear(ctx, userID)
}

func (f *CommerceFacade) CreateOrder(ctx context.Context, userID int64, address model.Address) (*model.Order, error) {
	return f.orders.Create(ctx, userID, address)
}

func (f *CommerceFacade) ConfirmPayment(ctx context.Context, orderID, orderRef, paymentRef, signature string) (*model.Order, error) {
	return f.orders.ConfirmPayment(ctx, orderID, orderRef, paymentRef, signature)
}

func (f *CommerceFacade) SetOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return f.orders.SetStatus(ctx, orderID, status)
}

func (f *CommerceFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *CommerceFacade) AllOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders.ListAll(ctx)
}

func (f *CommerceFacade) UpsertRating(ctx context.Context, userID int64, orderID, itemID string, score int, review string) (*model.Rating, float64, error) {
	return f.ratings.Upsert(ctx, userID, orderID, itemID, score, review)
}

func (f *CommerceFacade) RatingEligibility(ctx context.Context, userID int64, orderID, itemID string) (model.RatingEligibility, error) {
	return f.ratings.CheckEligibility(ctx, userID, orderID, itemID)
}

func (f *CommerceFacade) ItemRatings(ctx context.Context, itemID string) ([]model.Rating, error) {
	return f.ratings.ListByItem(ctx, itemID)
}

func (f *CommerceFacade) ItemRatingsBatch(ctx context.Context, itemIDs []string) (map[string][]model.Rating, error) {
	return f.ratings.ListByItems(ctx, itemIDs)
}

func (f *CommerceFacade) SalesReport(ctx context.Context, singleDate, start, end string) ([]model.CategorySales, error) {
	return f.sales.Aggregate(ctx, singleDate, start, end)
}

func (f *CommerceFacade) PendingForReconciliation(ctx context.Context, age time.Duration, limit int) ([]model.Order, error) {
	return f.orders.PendingOlderThan(ctx, age, limit)
}

func (f *CommerceFacade) FetchPayment(ctx context.Context, orderRef string) (*model.Payment, error) {
	return f.payments.FetchPayment(ctx, orderRef)
}

func (f *CommerceFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
