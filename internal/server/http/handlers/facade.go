package handlers

import (
	"context"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/pkg/auth"
)

// AuthFacade describes token verification required by middleware.
type AuthFacade interface {
	ParseToken(token string) (*auth.Claims, error)
}

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	Cart(ctx context.Context, userID int64) (model.Cart, error)
	AddToCart(ctx context.Context, userID int64, itemID string) (model.Cart, error)
	RemoveFromCart(ctx context.Context, userID int64, itemID string) (model.Cart, error)
	ClearCart(ctx context.Context, userID int64) error
}

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, userID int64, address model.Address) (*model.Order, error)
	ConfirmPayment(ctx context.Context, orderID, orderRef, paymentRef, signature string) (*model.Order, error)
	SetOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	AllOrders(ctx context.Context) ([]model.Order, error)
}

// RatingFacade provides rating ledger operations.
type RatingFacade interface {
	UpsertRating(ctx context.Context, userID int64, orderID, itemID string, score int, review string) (*model.Rating, float64, error)
	RatingEligibility(ctx context.Context, userID int64, orderID, itemID string) (model.RatingEligibility, error)
	ItemRatings(ctx context.Context, itemID string) ([]model.Rating, error)
	ItemRatingsBatch(ctx context.Context, itemIDs []string) (map[string][]model.Rating, error)
}

// SalesFacade provides the sales rollup.
type SalesFacade interface {
	SalesReport(ctx context.Context, singleDate, start, end string) ([]model.CategorySales, error)
}

// HealthFacade reports storage connectivity.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	AuthFacade
	CartFacade
	OrderFacade
	RatingFacade
	SalesFacade
	HealthFacade
}
