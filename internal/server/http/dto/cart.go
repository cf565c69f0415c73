package dto

// CartResponse returns the item-to-quantity map of a user's cart.
type CartResponse struct {
	Items map[string]int `json:"items"`
}
