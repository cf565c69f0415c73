package model

import "time"

// CatalogItem is a sellable product. AverageRating and RatingCount are
// derived fields owned by the rating ledger.
type CatalogItem struct {
	ID            string
	Name          string
	UnitPrice     int64
	Categories    []string
	AverageRating float64
	RatingCount   int
	CreatedAt     time.Time
}
