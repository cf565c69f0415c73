package model

// CategorySales is one row of an on-demand sales rollup: totals for a single
// category over the queried window. Never persisted.
type CategorySales struct {
	Category      string
	TotalSales    int64
	TotalQuantity int64
}
