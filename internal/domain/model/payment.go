package model

// PaymentState is the processor-side state of a payment intent.
type PaymentState string

const (
	PaymentStateCreated  PaymentState = "CREATED"
	PaymentStateCaptured PaymentState = "CAPTURED"
	PaymentStateFailed   PaymentState = "FAILED"
)

// Payment mirrors what the external processor reports for an order reference.
// The signature must never be trusted without recomputation.
type Payment struct {
	OrderRef   string
	PaymentRef string
	Signature  string
	State      PaymentState
}
