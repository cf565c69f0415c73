package repository

import (
	"context"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// CartRepository persists per-user carts. Every mutation is an atomic
// read-modify-write for that user and returns the resulting cart.
type CartRepository interface {
	Get(ctx context.Context, userID int64) (model.Cart, error)
	AddItem(ctx context.Context, userID int64, itemID string) (model.Cart, error)
	RemoveItem(ctx context.Context, userID int64, itemID string) (model.Cart, error)
	Clear(ctx context.Context, userID int64) error
}
