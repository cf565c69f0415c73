package dto

// CategorySalesResponse is one rollup row for a category.
type CategorySalesResponse struct {
	Category      string `json:"category"`
	TotalSales    int64  `json:"total_sales"`
	TotalQuantity int64  `json:"total_quantity"`
}
