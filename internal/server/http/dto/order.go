package dto

import "time"

// AddressPayload carries the delivery contact of an order.
type AddressPayload struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// CreateOrderRequest opens an order from the caller's current cart.
type CreateOrderRequest struct {
	Address AddressPayload `json:"address" binding:"required"`
}

// CreateOrderResponse returns the new order and its processor reference.
type CreateOrderResponse struct {
	OrderID           string `json:"order_id"`
	ProcessorOrderRef string `json:"processor_order_ref"`
	Amount            int64  `json:"amount"`
}

// OrderItemPayload is one line of the frozen order snapshot.
type OrderItemPayload struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse is the read projection of an order.
type OrderResponse struct {
	ID               string             `json:"id"`
	Status           string             `json:"status"`
	Amount           int64              `json:"amount"`
	PaymentConfirmed bool               `json:"payment_confirmed"`
	Items            []OrderItemPayload `json:"items"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ConfirmPaymentRequest carries a client-redirect payment confirmation.
type ConfirmPaymentRequest struct {
	ProcessorOrderRef   string `json:"processor_order_ref" binding:"required"`
	ProcessorPaymentRef string `json:"processor_payment_ref" binding:"required"`
	Signature           string `json:"signature" binding:"required"`
}

// PaymentWebhookRequest is the server-pushed variant of a confirmation.
type PaymentWebhookRequest struct {
	OrderID             string `json:"order_id" binding:"required"`
	ProcessorOrderRef   string `json:"processor_order_ref" binding:"required"`
	ProcessorPaymentRef string `json:"processor_payment_ref" binding:"required"`
	Signature           string `json:"signature" binding:"required"`
}

// SetStatusRequest moves an order to a new lifecycle state.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
