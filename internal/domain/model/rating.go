package model

import "time"

// Rating is a single review of a catalog item, unique per
// (item, user, order). Updates replace score and review but keep CreatedAt.
type Rating struct {
	ID        int64
	ItemID    string
	UserID    int64
	OrderID   string
	Score     int
	Review    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingEligibility is the read-only answer to "may this user rate this item
// on this order right now".
type RatingEligibility struct {
	Allowed      bool
	AlreadyRated bool
}
