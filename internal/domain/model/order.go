package model

import "time"

// OrderStatus describes order fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// transitions is the single source of truth for allowed status changes.
// Delivered and Cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:           {OrderStatusProcessing},
	OrderStatusProcessing:     {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
}

// Valid reports whether the status is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving to next is an allowed transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a frozen copy of a catalog item taken at order creation.
// Later catalog edits never affect it.
type OrderItem struct {
	ItemID    string
	Name      string
	UnitPrice int64
	Quantity  int
}

// Subtotal returns unit price times quantity in minor currency units.
func (i OrderItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Address is the delivery contact captured with the order.
type Address struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Phone      string
	Email      string
}

// Order is an append-only record of a purchase. Amount is fixed at creation
// and never recomputed.
type Order struct {
	ID                string
	UserID            int64
	Items             []OrderItem
	Amount            int64
	Address           Address
	Status            OrderStatus
	PaymentConfirmed  bool
	ProcessorOrderRef string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ContainsItem reports whether the order snapshot includes the catalog item.
func (o *Order) ContainsItem(itemID string) bool {
	for _, item := range o.Items {
		if item.ItemID == itemID {
			return true
		}
	}
	return false
}
