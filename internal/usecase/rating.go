package usecase

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/domain/repository"
)

const (
	minScore = 1
	maxScore = 5
)

// RatingUseCase maintains the rating ledger: one rating per
// (item, user, order), gated on a delivered order owned by the submitter.
type RatingUseCase struct {
	ratings         repository.RatingRepository
	orders          repository.OrderRepository
	reviewMaxLength int
}

// NewRatingUseCase constructs RatingUseCase.
func NewRatingUseCase(ratings repository.RatingRepository, orders repository.OrderRepository, reviewMaxLength int) *RatingUseCase {
	return &RatingUseCase{ratings: ratings, orders: orders, reviewMaxLength: reviewMaxLength}
}

// Upsert creates or replaces the rating and returns it together with the
// item's recomputed average. The keyed upsert and average write-back happen in
// one transaction, so readers never see one without the other.
func (u *RatingUseCase) Upsert(ctx context.Context, userID int64, orderID, itemID string, score int, review string) (*model.Rating, float64, error) {
	if score < minScore || score > maxScore {
		return nil, 0, fmt.Errorf("%w: score must be between %d and %d", domainErrors.ErrScoreOutOfRange, minScore, maxScore)
	}
	if utf8.RuneCountInString(review) > u.reviewMaxLength {
		return nil, 0, fmt.Errorf("%w: review exceeds %d characters", domainErrors.ErrReviewTooLong, u.reviewMaxLength)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, 0, err
	}
	if !eligible(order, userID, itemID) {
		return nil, 0, domainErrors.ErrNotEligible
	}

	rating := &model.Rating{
		ItemID:  itemID,
		UserID:  userID,
		OrderID: orderID,
		Score:   score,
		Review:  review,
	}
	average, err := u.ratings.Upsert(ctx, rating)
	if err != nil {
		return nil, 0, err
	}
	return rating, average, nil
}

// CheckEligibility reports whether the user may rate the item on this order
// and whether a rating already exists. Pure read, mutates nothing.
func (u *RatingUseCase) CheckEligibility(ctx context.Context, userID int64, orderID, itemID string) (model.RatingEligibility, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return model.RatingEligibility{}, err
	}
	if !eligible(order, userID, itemID) {
		return model.RatingEligibility{}, nil
	}

	_, err = u.ratings.Find(ctx, itemID, userID, orderID)
	switch {
	case err == nil:
		return model.RatingEligibility{Allowed: true, AlreadyRated: true}, nil
	case errors.Is(err, domainErrors.ErrNotFound):
		return model.RatingEligibility{Allowed: true}, nil
	default:
		return model.RatingEligibility{}, err
	}
}

// ListByItem returns the item's ratings, newest first.
func (u *RatingUseCase) ListByItem(ctx context.Context, itemID string) ([]model.Rating, error) {
	return u.ratings.ListByItem(ctx, itemID)
}

// ListByItems returns ratings for several items at once, newest first.
func (u *RatingUseCase) ListByItems(ctx context.Context, itemIDs []string) (map[string][]model.Rating, error) {
	return u.ratings.ListByItems(ctx, itemIDs)
}

func eligible(order *model.Order, userID int64, itemID string) bool {
	return order.UserID == userID &&
		order.Status == model.OrderStatusDelivered &&
		order.ContainsItem(itemID)
}
