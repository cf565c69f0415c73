package repository

import (
	"context"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// RatingRepository persists ratings keyed by (item, user, order).
type RatingRepository interface {
	// Upsert inserts or replaces the rating for its (item, user, order) triple
	// and recomputes the item average in the same transaction. It fills the
	// rating identifier and timestamps and returns the new average.
	Upsert(ctx context.Context, rating *model.Rating) (float64, error)
	Find(ctx context.Context, itemID string, userID int64, orderID string) (*model.Rating, error)
	ListByItem(ctx context.Context, itemID string) ([]model.Rating, error)
	ListByItems(ctx context.Context, itemIDs []string) (map[string][]model.Rating, error)
}
