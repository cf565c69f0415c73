package test

import (
	"context"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	pkgAuth "github.com/greenbasket/greenbasket/internal/pkg/auth"
)

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	CartFn   func(context.Context, int64) (model.Cart, error)
	AddFn    func(context.Context, int64, string) (model.Cart, error)
	RemoveFn func(context.Context, int64, string) (model.Cart, error)
	ClearFn  func(context.Context, int64) error
}

// Cart delegates to provided function or returns an empty cart.
func (s CartFacadeStub) Cart(ctx context.Context, userID int64) (model.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID)
	}
	return model.Cart{}, nil
}

// AddToCart delegates to provided function or returns a single-line cart.
func (s CartFacadeStub) AddToCart(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, userID, itemID)
	}
	return model.Cart{itemID: 1}, nil
}

// RemoveFromCart delegates to provided function or returns an empty cart.
func (s CartFacadeStub) RemoveFromCart(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, userID, itemID)
	}
	return model.Cart{}, nil
}

// ClearCart executes configured handler.
func (s CartFacadeStub) ClearCart(ctx context.Context, userID int64) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, userID)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn    func(context.Context, int64, model.Address) (*model.Order, error)
	ConfirmFn   func(context.Context, string, string, string, string) (*model.Order, error)
	SetStatusFn func(context.Context, string, model.OrderStatus) error
	OrdersFn    func(context.Context, int64) ([]model.Order, error)
	AllOrdersFn func(context.Context) ([]model.Order, error)
}

// CreateOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, userID int64, address model.Address) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, address)
	}
	return &model.Order{ID: "order-1", UserID: userID, Address: address, Status: model.OrderStatusPending}, nil
}

// ConfirmPayment delegates to provided function or returns a paid order.
func (s OrderFacadeStub) ConfirmPayment(ctx context.Context, orderID, orderRef, paymentRef, signature string) (*model.Order, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, orderID, orderRef, paymentRef, signature)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPaid, PaymentConfirmed: true}, nil
}

// SetOrderStatus executes configured handler.
func (s OrderFacadeStub) SetOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, orderID, status)
	}
	return nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return nil, nil
}

// AllOrders returns predefined orders across users.
func (s OrderFacadeStub) AllOrders(ctx context.Context) ([]model.Order, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx)
	}
	return nil, nil
}

// RatingFacadeStub simulates rating ledger operations.
type RatingFacadeStub struct {
	UpsertFn      func(context.Context, int64, string, string, int, string) (*model.Rating, float64, error)
	EligibilityFn func(context.Context, int64, string, string) (model.RatingEligibility, error)
	ListFn        func(context.Context, string) ([]model.Rating, error)
	BatchFn       func(context.Context, []string) (map[string][]model.Rating, error)
}

// UpsertRating delegates to provided function or echoes the input back.
func (s RatingFacadeStub) UpsertRating(ctx context.Context, userID int64, orderID, itemID string, score int, review string) (*model.Rating, float64, error) {
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, userID, orderID, itemID, score, review)
	}
	rating := &model.Rating{ID: 1, ItemID: itemID, UserID: userID, OrderID: orderID, Score: score, Review: review}
	return rating, float64(score), nil
}

// RatingEligibility returns the configured verdict or allows by default.
func (s RatingFacadeStub) RatingEligibility(ctx context.Context, userID int64, orderID, itemID string) (model.RatingEligibility, error) {
	if s.EligibilityFn != nil {
		return s.EligibilityFn(ctx, userID, orderID, itemID)
	}
	return model.RatingEligibility{Allowed: true}, nil
}

// ItemRatings returns preconfigured ratings for the item.
func (s RatingFacadeStub) ItemRatings(ctx context.Context, itemID string) ([]model.Rating, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, itemID)
	}
	return nil, nil
}

// ItemRatingsBatch returns preconfigured grouped ratings.
func (s RatingFacadeStub) ItemRatingsBatch(ctx context.Context, itemIDs []string) (map[string][]model.Rating, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, itemIDs)
	}
	return map[string][]model.Rating{}, nil
}

// SalesFacadeStub simulates the sales rollup.
type SalesFacadeStub struct {
	ReportFn func(context.Context, string, string, string) ([]model.CategorySales, error)
}

// SalesReport delegates to provided function or returns an empty rollup.
func (s SalesFacadeStub) SalesReport(ctx context.Context, singleDate, start, end string) ([]model.CategorySales, error) {
	if s.ReportFn != nil {
		return s.ReportFn(ctx, singleDate, start, end)
	}
	return nil, nil
}

// HealthFacadeStub reports configurable storage connectivity.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(ctx context.Context) error {
	return s.Err
}

// AuthParserStub verifies tokens for the HTTP layer.
type AuthParserStub struct {
	Claims *pkgAuth.Claims
	Err    error
}

// ParseToken returns stored claims for authenticated user.
func (s AuthParserStub) ParseToken(token string) (*pkgAuth.Claims, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Claims != nil {
		return s.Claims, nil
	}
	return &pkgAuth.Claims{UserID: 1, Role: model.RoleCustomer}, nil
}

// CommerceFacadeStub aggregates facade dependencies for HTTP layer tests.
type CommerceFacadeStub struct {
	AuthParserStub
	CartFacadeStub
	OrderFacadeStub
	RatingFacadeStub
	SalesFacadeStub
	HealthFacadeStub
}
