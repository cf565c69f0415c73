package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/greenbasket/greenbasket/internal/adapter/payment"
	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// CommerceFacade exposes the subset of application functionality required by
// the reconciler.
type CommerceFacade interface {
	PendingForReconciliation(ctx context.Context, age time.Duration, limit int) ([]model.Order, error)
	FetchPayment(ctx context.Context, orderRef string) (*model.Payment, error)
	ConfirmPayment(ctx context.Context, orderID, orderRef, paymentRef, signature string) (*model.Order, error)
}

// Reconciler sweeps stale Pending orders and asks the processor whether their
// payment was captured while the webhook was lost. Captured payments go
// through the same idempotent confirmation path as webhooks, so racing with a
// late webhook is harmless.
type Reconciler struct {
	facade       CommerceFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconciliation worker pool.
func NewReconciler(facade CommerceFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	// Orders younger than one poll interval are left for the webhook.
	orders, err := r.facade.PendingForReconciliation(ctx, r.pollInterval, r.batchSize)
	if err != nil {
		r.logger.Error("fetch pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-r.jobs:
			if !ok {
				return
			}
			r.reconcile(ctx, order)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context, order model.Order) {
	result, err := r.facade.FetchPayment(ctx, order.ProcessorOrderRef)
	if err != nil {
		switch e := err.(type) {
		case payment.TooManyRequestsError:
			r.logger.Warn("payment processor rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			if errors.Is(err, payment.ErrPaymentNotFound) {
				// Nothing captured yet; the next sweep will look again.
				return
			}
			r.logger.Error("payment fetch failed",
				slog.String("order", order.ID), slog.String("error", err.Error()))
		}
		return
	}

	if result.State != model.PaymentStateCaptured {
		return
	}

	_, err = r.facade.ConfirmPayment(ctx, order.ID, result.OrderRef, result.PaymentRef, result.Signature)
	switch {
	case err == nil:
		r.logger.Info("reconciled lost payment confirmation", slog.String("order", order.ID))
	case errors.Is(err, domainErrors.ErrInvalidState):
		// Someone else confirmed or cancelled it between sweep and confirm.
	default:
		r.logger.Error("reconcile confirmation failed",
			slog.String("order", order.ID), slog.String("error", err.Error()))
	}
}
