package test

import (
	"context"
	"sync"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// ReconcilerFacadeStub simulates the application surface the reconciliation
// worker drives. Pending batches are served one per poll.
type ReconcilerFacadeStub struct {
	sync.Mutex
	Pending       [][]model.Order
	FetchFn       func(context.Context, string) (*model.Payment, error)
	ConfirmFn     func(context.Context, string, string, string, string) (*model.Order, error)
	Confirmations []string
}

// PendingForReconciliation pops the next prepared batch.
func (s *ReconcilerFacadeStub) PendingForReconciliation(ctx context.Context, age time.Duration, limit int) ([]model.Order, error) {
	s.Lock()
	defer s.Unlock()
	if len(s.Pending) == 0 {
		return nil, nil
	}
	batch := s.Pending[0]
	s.Pending = s.Pending[1:]
	return batch, nil
}

// FetchPayment delegates to the override or reports a captured payment.
func (s *ReconcilerFacadeStub) FetchPayment(ctx context.Context, orderRef string) (*model.Payment, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, orderRef)
	}
	return &model.Payment{OrderRef: orderRef, PaymentRef: "pay-1", Signature: "sig", State: model.PaymentStateCaptured}, nil
}

// ConfirmPayment records the confirmation and delegates to the override.
func (s *ReconcilerFacadeStub) ConfirmPayment(ctx context.Context, orderID, orderRef, paymentRef, signature string) (*model.Order, error) {
	s.Lock()
	s.Confirmations = append(s.Confirmations, orderID)
	s.Unlock()
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, orderID, orderRef, paymentRef, signature)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPaid, PaymentConfirmed: true}, nil
}

// Confirmed returns a copy of the recorded confirmation order ids.
func (s *ReconcilerFacadeStub) Confirmed() []string {
	s.Lock()
	defer s.Unlock()
	return append([]string(nil), s.Confirmations...)
}
