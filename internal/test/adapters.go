package test

import (
	"context"
	"sync"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// PaymentGatewayStub opens fake payment intents.
type PaymentGatewayStub struct {
	CreateFn func(context.Context, int64, string) (string, error)
	Calls    int
}

// CreateOrder delegates to provided function or returns a deterministic ref.
func (s *PaymentGatewayStub) CreateOrder(ctx context.Context, amount int64, receipt string) (string, error) {
	s.Calls++
	if s.CreateFn != nil {
		return s.CreateFn(ctx, amount, receipt)
	}
	return "proc-" + receipt, nil
}

// VerifierStub checks signatures with a fixed verdict.
type VerifierStub struct {
	OK       bool
	VerifyFn func(string, string, string) bool
}

// Verify delegates to provided function or returns the fixed verdict.
func (s VerifierStub) Verify(orderRef, paymentRef, signature string) bool {
	if s.VerifyFn != nil {
		return s.VerifyFn(orderRef, paymentRef, signature)
	}
	return s.OK
}

// NotifierStub records delivered messages.
type NotifierStub struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

// Send appends the recipient or fails with the configured error.
func (s *NotifierStub) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, to)
	return nil
}

// Recipients returns a copy of the delivered recipient list.
func (s *NotifierStub) Recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Sent...)
}

// PaymentProviderStub serves processor-side payment lookups.
type PaymentProviderStub struct {
	FetchFn func(context.Context, string) (*model.Payment, error)
}

// FetchPayment delegates to provided function or reports a captured payment.
func (s PaymentProviderStub) FetchPayment(ctx context.Context, orderRef string) (*model.Payment, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, orderRef)
	}
	return &model.Payment{OrderRef: orderRef, PaymentRef: "pay-1", State: model.PaymentStateCaptured}, nil
}
