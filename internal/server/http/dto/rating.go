package dto

import "time"

// UpsertRatingRequest creates or replaces the caller's rating for an item.
type UpsertRatingRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Score   int    `json:"score" binding:"required"`
	Review  string `json:"review"`
}

// RatingResponse is the read projection of a rating.
type RatingResponse struct {
	ItemID    string    `json:"item_id"`
	Score     int       `json:"score"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertRatingResponse returns the stored rating and the item's new average.
type UpsertRatingResponse struct {
	Rating        RatingResponse `json:"rating"`
	AverageRating float64        `json:"average_rating"`
}

// EligibilityResponse answers whether rating is currently allowed.
type EligibilityResponse struct {
	Allowed      bool `json:"allowed"`
	AlreadyRated bool `json:"already_rated"`
}

// RatingsBatchRequest asks for ratings of several items at once.
type RatingsBatchRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required"`
}
