package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/test"
)

const testDeliveryFee = int64(3000)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validAddress() model.Address {
	return model.Address{Line1: "12 Market Lane", City: "Pune", PostalCode: "411001", Email: "buyer@example.com"}
}

type orderFixture struct {
	carts    *test.CartRepositoryStub
	orders   *test.OrderRepositoryStub
	catalog  *test.CatalogRepositoryStub
	gateway  *test.PaymentGatewayStub
	verifier test.VerifierStub
	notifier *test.NotifierStub
}

func newOrderFixture() *orderFixture {
	return &orderFixture{
		carts:  test.NewCartRepositoryStub("milk-1l", "ghee-500g"),
		orders: &test.OrderRepositoryStub{},
		catalog: &test.CatalogRepositoryStub{Items: map[string]model.CatalogItem{
			"milk-1l":   {ID: "milk-1l", Name: "Milk 1L", UnitPrice: 6000},
			"ghee-500g": {ID: "ghee-500g", Name: "Ghee 500g", UnitPrice: 300000},
		}},
		gateway:  &test.PaymentGatewayStub{},
		verifier: test.VerifierStub{OK: true},
		notifier: &test.NotifierStub{},
	}
}

func (f *orderFixture) useCase() *OrderUseCase {
	return NewOrderUseCase(f.orders, f.carts, f.catalog, f.gateway, f.verifier, f.notifier, testDeliveryFee, discardLogger())
}

func TestOrderUseCaseCreateSnapshotsCart(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := f.carts.AddItem(ctx, 7, "milk-1l"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := f.carts.AddItem(ctx, 7, "ghee-500g"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var created *model.Order
	f.orders.CreateFn = func(_ context.Context, order *model.Order) error {
		created = order
		return nil
	}

	order, err := f.useCase().Create(ctx, 7, validAddress())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.ID != order.ID {
		t.Fatalf("expected order to be persisted")
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	// 2*6000 + 1*300000 + delivery fee.
	if want := int64(2*6000 + 300000 + testDeliveryFee); order.Amount != want {
		t.Fatalf("expected amount %d, got %d", want, order.Amount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected two order lines, got %d", len(order.Items))
	}
	if order.ProcessorOrderRef != "proc-"+order.ID {
		t.Fatalf("unexpected processor ref %s", order.ProcessorOrderRef)
	}

	cart, err := f.carts.Get(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 0 {
		t.Fatalf("expected cart to be cleared, got %v", cart)
	}
}

func waitForRecipient(t *testing.T, notifier *test.NotifierStub, want string) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		for _, to := range notifier.Recipients() {
			if to == want {
				return
			}
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for mail to %s, got %v", want, notifier.Recipients())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestOrderUseCaseCreateNotifiesBuyer(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	if _, err := f.carts.AddItem(ctx, 7, "milk-1l"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.useCase().Create(ctx, 7, validAddress()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForRecipient(t, f.notifier, "buyer@example.com")
}

func TestOrderUseCaseCreateRejectsEmptyCart(t *testing.T) {
	f := newOrderFixture()

	if _, err := f.useCase().Create(context.Background(), 7, validAddress()); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.gateway.Calls != 0 {
		t.Fatalf("payment intent should not be opened for an empty cart")
	}
}

func TestOrderUseCaseCreateRejectsIncompleteAddress(t *testing.T) {
	f := newOrderFixture()

	if _, err := f.useCase().Create(context.Background(), 7, model.Address{City: "Pune"}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderUseCaseCreateRejectsVanishedCatalogItem(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	if _, err := f.carts.AddItem(ctx, 7, "ghee-500g"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delete(f.catalog.Items, "ghee-500g")

	if _, err := f.useCase().Create(ctx, 7, validAddress()); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderUseCaseCreateWrapsGatewayFailure(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	if _, err := f.carts.AddItem(ctx, 7, "milk-1l"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.gateway.CreateFn = func(context.Context, int64, string) (string, error) {
		return "", errors.New("processor down")
	}
	f.orders.CreateFn = func(context.Context, *model.Order) error {
		t.Fatal("order must not be persisted without a payment intent")
		return nil
	}

	if _, err := f.useCase().Create(ctx, 7, validAddress()); !errors.Is(err, domainErrors.ErrDependencyFailure) {
		t.Fatalf("expected dependency failure, got %v", err)
	}
}

type failingClearCarts struct {
	*test.CartRepositoryStub
}

func (c failingClearCarts) Clear(context.Context, int64) error {
	return errors.New("connection reset")
}

func TestOrderUseCaseCreateKeepsOrderWhenCartClearFails(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	if _, err := f.carts.AddItem(ctx, 7, "milk-1l"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uc := NewOrderUseCase(f.orders, failingClearCarts{f.carts}, f.catalog, f.gateway, f.verifier, f.notifier, testDeliveryFee, discardLogger())
	order, err := uc.Create(ctx, 7, validAddress())
	if err != nil {
		t.Fatalf("order creation must survive a cart clear failure: %v", err)
	}
	if order == nil {
		t.Fatal("expected order")
	}
}

func TestOrderUseCaseConfirmPaymentRejectsTamperedSignature(t *testing.T) {
	f := newOrderFixture()
	f.verifier = test.VerifierStub{OK: false}
	f.orders.GetByIDFn = func(context.Context, string) (*model.Order, error) {
		t.Fatal("order must not be loaded for a tampered signature")
		return nil, nil
	}

	_, err := f.useCase().ConfirmPayment(context.Background(), "order-1", "ref-1", "pay-1", "bad")
	if !errors.Is(err, domainErrors.ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}
}

func TestOrderUseCaseConfirmPaymentRejectsForeignIntent(t *testing.T) {
	f := newOrderFixture()
	f.orders.GetByIDFn = func(_ context.Context, id string) (*model.Order, error) {
		return &model.Order{ID: id, ProcessorOrderRef: "ref-other", Status: model.OrderStatusPending}, nil
	}

	_, err := f.useCase().ConfirmPayment(context.Background(), "order-1", "ref-1", "pay-1", "sig")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderUseCaseConfirmPaymentAppliesOnce(t *testing.T) {
	f := newOrderFixture()
	f.orders.GetByIDFn = func(_ context.Context, id string) (*model.Order, error) {
		return &model.Order{ID: id, ProcessorOrderRef: "ref-1", Status: model.OrderStatusPending, Address: validAddress()}, nil
	}
	confirmCalls := 0
	f.orders.ConfirmPaymentFn = func(context.Context, string) (bool, error) {
		confirmCalls++
		return confirmCalls == 1, nil
	}

	uc := f.useCase()
	for i := 0; i < 2; i++ {
		order, err := uc.ConfirmPayment(context.Background(), "order-1", "ref-1", "pay-1", "sig")
		if err != nil {
			t.Fatalf("confirmation %d failed: %v", i+1, err)
		}
		if order.Status != model.OrderStatusPaid || !order.PaymentConfirmed {
			t.Fatalf("expected paid order, got %+v", order)
		}
	}
	if confirmCalls != 2 {
		t.Fatalf("expected both confirmations to reach the repository, got %d", confirmCalls)
	}
}

func TestOrderUseCaseConfirmPaymentKeepsAdvancedStatusOnDuplicate(t *testing.T) {
	f := newOrderFixture()
	f.orders.GetByIDFn = func(_ context.Context, id string) (*model.Order, error) {
		return &model.Order{ID: id, ProcessorOrderRef: "ref-1", Status: model.OrderStatusDelivered, PaymentConfirmed: true}, nil
	}
	f.orders.ConfirmPaymentFn = func(context.Context, string) (bool, error) {
		return false, nil
	}

	order, err := f.useCase().ConfirmPayment(context.Background(), "order-1", "ref-1", "pay-1", "sig")
	if err != nil {
		t.Fatalf("duplicate confirmation must succeed: %v", err)
	}
	if order.Status != model.OrderStatusDelivered || !order.PaymentConfirmed {
		t.Fatalf("expected delivered order to keep its status, got %+v", order)
	}
}

func TestOrderUseCaseConfirmPaymentPropagatesInvalidState(t *testing.T) {
	f := newOrderFixture()
	f.orders.GetByIDFn = func(_ context.Context, id string) (*model.Order, error) {
		return &model.Order{ID: id, ProcessorOrderRef: "ref-1", Status: model.OrderStatusCancelled}, nil
	}
	f.orders.ConfirmPaymentFn = func(context.Context, string) (bool, error) {
		return false, domainErrors.ErrInvalidState
	}

	_, err := f.useCase().ConfirmPayment(context.Background(), "order-1", "ref-1", "pay-1", "sig")
	if !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestOrderUseCaseSetStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()

	if err := f.useCase().SetStatus(context.Background(), "order-1", "SHIPPED"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderUseCaseSetStatusPropagatesIllegalTransition(t *testing.T) {
	f := newOrderFixture()
	f.orders.GetByIDFn = func(_ context.Context, id string) (*model.Order, error) {
		return &model.Order{ID: id, Status: model.OrderStatusDelivered}, nil
	}
	f.orders.UpdateStatusFn = func(context.Context, string, model.OrderStatus) error {
		return domainErrors.ErrIllegalTransition
	}

	err := f.useCase().SetStatus(context.Background(), "order-1", model.OrderStatusProcessing)
	if !errors.Is(err, domainErrors.ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
}
