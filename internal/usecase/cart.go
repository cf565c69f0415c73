package usecase

import (
	"context"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/domain/repository"
)

// CartUseCase encapsulates per-user cart operations. Atomicity of each
// read-modify-write lives in the repository; carts of different users are
// independent and never lock each other.
type CartUseCase struct {
	carts repository.CartRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository) *CartUseCase {
	return &CartUseCase{carts: carts}
}

// Get returns the current cart, empty if the user has none yet.
func (u *CartUseCase) Get(ctx context.Context, userID int64) (model.Cart, error) {
	return u.carts.Get(ctx, userID)
}

// Add increments the quantity for the item by one and returns the updated cart.
func (u *CartUseCase) Add(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	return u.carts.AddItem(ctx, userID, itemID)
}

// Remove decrements the quantity for the item by one, deleting the entry at
// zero. Removing an absent item is a silent no-op.
func (u *CartUseCase) Remove(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	return u.carts.RemoveItem(ctx, userID, itemID)
}

// Clear empties the cart.
func (u *CartUseCase) Clear(ctx context.Context, userID int64) error {
	return u.carts.Clear(ctx, userID)
}
