package test

import (
	"context"
	"time"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/domain/repository"
)

var (
	_ repository.CartRepository    = (*CartRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
	_ repository.CatalogRepository = (*CatalogRepositoryStub)(nil)
	_ repository.RatingRepository  = (*RatingRepositoryStub)(nil)
)

// CartRepositoryStub stores carts in-memory for tests.
type CartRepositoryStub struct {
	Carts map[int64]model.Cart
	Known map[string]bool
	Err   error
}

// NewCartRepositoryStub constructs stub repository with initialized maps.
// Item identifiers listed in items are treated as existing catalog rows.
func NewCartRepositoryStub(items ...string) *CartRepositoryStub {
	known := make(map[string]bool, len(items))
	for _, id := range items {
		known[id] = true
	}
	return &CartRepositoryStub{
		Carts: make(map[int64]model.Cart),
		Known: known,
	}
}

func (s *CartRepositoryStub) snapshot(userID int64) model.Cart {
	cart := make(model.Cart, len(s.Carts[userID]))
	for id, qty := range s.Carts[userID] {
		cart[id] = qty
	}
	return cart
}

// Get returns a copy of the stored cart, empty when none exists.
func (s *CartRepositoryStub) Get(ctx context.Context, userID int64) (model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.snapshot(userID), nil
}

// AddItem increments quantity or rejects unknown catalog items.
func (s *CartRepositoryStub) AddItem(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Known != nil && !s.Known[itemID] {
		return nil, domainErrors.ErrNotFound
	}
	if s.Carts[userID] == nil {
		s.Carts[userID] = make(model.Cart)
	}
	s.Carts[userID][itemID]++
	return s.snapshot(userID), nil
}

// RemoveItem decrements quantity, dropping the line at zero.
func (s *CartRepositoryStub) RemoveItem(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	cart := s.Carts[userID]
	if cart != nil {
		if cart[itemID] <= 1 {
			delete(cart, itemID)
		} else {
			cart[itemID]--
		}
	}
	return s.snapshot(userID), nil
}

// Clear removes the whole cart.
func (s *CartRepositoryStub) Clear(ctx context.Context, userID int64) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.Carts, userID)
	return nil
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn                 func(context.Context, *model.Order) error
	GetByIDFn                func(context.Context, string) (*model.Order, error)
	ConfirmPaymentFn         func(context.Context, string) (bool, error)
	UpdateStatusFn           func(context.Context, string, model.OrderStatus) error
	ListByUserFn             func(context.Context, int64) ([]model.Order, error)
	ListAllFn                func(context.Context) ([]model.Order, error)
	ListDeliveredBetweenFn   func(context.Context, time.Time, time.Time) ([]model.Order, error)
	SelectPendingOlderThanFn func(context.Context, time.Duration, int) ([]model.Order, error)
}

// Create stores the order via override or succeeds silently.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	return nil
}

// GetByID fetches an order or reports not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// ConfirmPayment delegates to the override or reports the transition applied.
func (s *OrderRepositoryStub) ConfirmPayment(ctx context.Context, orderID string) (bool, error) {
	if s.ConfirmPaymentFn != nil {
		return s.ConfirmPaymentFn(ctx, orderID)
	}
	return true, nil
}

// UpdateStatus delegates to the override or succeeds silently.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, next)
	}
	return nil
}

// ListByUser returns preconfigured orders for the user.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

// ListAll returns preconfigured orders across users.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	if s.ListAllFn != nil {
		return s.ListAllFn(ctx)
	}
	return nil, nil
}

// ListDeliveredBetween returns preconfigured delivered orders.
func (s *OrderRepositoryStub) ListDeliveredBetween(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	if s.ListDeliveredBetweenFn != nil {
		return s.ListDeliveredBetweenFn(ctx, start, end)
	}
	return nil, nil
}

// SelectPendingOlderThan returns preconfigured stale pending orders.
func (s *OrderRepositoryStub) SelectPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]model.Order, error) {
	if s.SelectPendingOlderThanFn != nil {
		return s.SelectPendingOlderThanFn(ctx, age, limit)
	}
	return nil, nil
}

// CatalogRepositoryStub serves a fixed set of catalog items.
type CatalogRepositoryStub struct {
	Items      map[string]model.CatalogItem
	Categories map[string][]string
	Err        error
}

// GetByIDs returns the subset of known items among ids.
func (s *CatalogRepositoryStub) GetByIDs(ctx context.Context, ids []string) (map[string]model.CatalogItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	found := make(map[string]model.CatalogItem)
	for _, id := range ids {
		if item, ok := s.Items[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

// CategoriesForItems resolves preconfigured category sets.
func (s *CatalogRepositoryStub) CategoriesForItems(ctx context.Context, ids []string) (map[string][]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	found := make(map[string][]string)
	for _, id := range ids {
		if categories, ok := s.Categories[id]; ok {
			found[id] = categories
		}
	}
	return found, nil
}

// RatingRepositoryStub keeps ratings in-memory keyed by (item, user, order).
type RatingRepositoryStub struct {
	Ratings map[[2]string]map[int64]*model.Rating
	Next    int64
	Err     error
}

// NewRatingRepositoryStub constructs stub repository with initialized maps.
func NewRatingRepositoryStub() *RatingRepositoryStub {
	return &RatingRepositoryStub{
		Ratings: make(map[[2]string]map[int64]*model.Rating),
		Next:    1,
	}
}

// Upsert inserts or replaces the rating and recomputes the item average over
// the stored ratings, mirroring the production keyed upsert.
func (s *RatingRepositoryStub) Upsert(ctx context.Context, rating *model.Rating) (float64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	key := [2]string{rating.ItemID, rating.OrderID}
	if s.Ratings[key] == nil {
		s.Ratings[key] = make(map[int64]*model.Rating)
	}
	now := time.Now()
	if existing, ok := s.Ratings[key][rating.UserID]; ok {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	} else {
		rating.ID = s.Next
		s.Next++
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now
	stored := *rating
	s.Ratings[key][rating.UserID] = &stored

	var sum, count int
	for key, byUser := range s.Ratings {
		if key[0] != rating.ItemID {
			continue
		}
		for _, r := range byUser {
			sum += r.Score
			count++
		}
	}
	average := float64(sum) / float64(count)
	// One decimal place, same rounding the storage layer applies.
	return float64(int64(average*10+0.5)) / 10, nil
}

// Find returns the stored rating for the triple or not found.
func (s *RatingRepositoryStub) Find(ctx context.Context, itemID string, userID int64, orderID string) (*model.Rating, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if byUser, ok := s.Ratings[[2]string{itemID, orderID}]; ok {
		if rating, ok := byUser[userID]; ok {
			copied := *rating
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByItem returns every stored rating for the item.
func (s *RatingRepositoryStub) ListByItem(ctx context.Context, itemID string) ([]model.Rating, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var ratings []model.Rating
	for key, byUser := range s.Ratings {
		if key[0] != itemID {
			continue
		}
		for _, r := range byUser {
			ratings = append(ratings, *r)
		}
	}
	return ratings, nil
}

// ListByItems groups stored ratings by item identifier.
func (s *RatingRepositoryStub) ListByItems(ctx context.Context, itemIDs []string) (map[string][]model.Rating, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	grouped := make(map[string][]model.Rating)
	for _, id := range itemIDs {
		ratings, err := s.ListByItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(ratings) > 0 {
			grouped[id] = ratings
		}
	}
	return grouped, nil
}
