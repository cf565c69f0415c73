package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/test"
)

func TestSalesUseCaseAggregateRollsUpByCategory(t *testing.T) {
	orders := &test.OrderRepositoryStub{ListDeliveredBetweenFn: func(context.Context, time.Time, time.Time) ([]model.Order, error) {
		return []model.Order{
			{
				ID:     "order-1",
				Status: model.OrderStatusDelivered,
				Items: []model.OrderItem{
					{ItemID: "milk-1l", UnitPrice: 6000, Quantity: 2},
				},
			},
			{
				ID:     "order-2",
				Status: model.OrderStatusDelivered,
				Items: []model.OrderItem{
					{ItemID: "ghee-500g", UnitPrice: 300000, Quantity: 1},
				},
			},
		}, nil
	}}
	catalog := &test.CatalogRepositoryStub{Categories: map[string][]string{
		"milk-1l":   {"Dairy", "Milk"},
		"ghee-500g": {"Dairy", "Ghee"},
	}}

	report, err := NewSalesUseCase(orders, catalog).Aggregate(context.Background(), "2026-08-20", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.CategorySales{
		{Category: "Dairy", TotalSales: 312000, TotalQuantity: 3},
		{Category: "Ghee", TotalSales: 300000, TotalQuantity: 1},
		{Category: "Milk", TotalSales: 12000, TotalQuantity: 2},
	}
	if !reflect.DeepEqual(report, want) {
		t.Fatalf("unexpected rollup:\n got %+v\nwant %+v", report, want)
	}
}

func TestSalesUseCaseAggregateEmptyWindow(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	catalog := &test.CatalogRepositoryStub{}

	report, err := NewSalesUseCase(orders, catalog).Aggregate(context.Background(), "2026-08-20", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("expected empty rollup, got %+v", report)
	}
}

func TestSalesUseCaseAggregateSingleDateBounds(t *testing.T) {
	var gotStart, gotEnd time.Time
	orders := &test.OrderRepositoryStub{ListDeliveredBetweenFn: func(_ context.Context, start, end time.Time) ([]model.Order, error) {
		gotStart, gotEnd = start, end
		return nil, nil
	}}

	if _, err := NewSalesUseCase(orders, &test.CatalogRepositoryStub{}).Aggregate(context.Background(), "2026-08-20", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	if !gotStart.Equal(wantStart) || !gotEnd.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected window [%v, %v)", gotStart, gotEnd)
	}
}

func TestSalesUseCaseAggregateRangeBoundsAreInclusive(t *testing.T) {
	var gotEnd time.Time
	orders := &test.OrderRepositoryStub{ListDeliveredBetweenFn: func(_ context.Context, _, end time.Time) ([]model.Order, error) {
		gotEnd = end
		return nil, nil
	}}

	if _, err := NewSalesUseCase(orders, &test.CatalogRepositoryStub{}).Aggregate(context.Background(), "", "2026-08-01", "2026-08-20"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// End date itself belongs to the window, so the exclusive bound is +1 day.
	if want := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC); !gotEnd.Equal(want) {
		t.Fatalf("expected exclusive end %v, got %v", want, gotEnd)
	}
}

func TestSalesUseCaseAggregateRejectsBadWindows(t *testing.T) {
	uc := NewSalesUseCase(&test.OrderRepositoryStub{}, &test.CatalogRepositoryStub{})

	cases := []struct {
		name             string
		date, start, end string
	}{
		{name: "no parameters"},
		{name: "garbage date", date: "last tuesday"},
		{name: "missing end", start: "2026-08-01"},
		{name: "start after end", start: "2026-08-20", end: "2026-08-01"},
	}
	for _, tc := range cases {
		if _, err := uc.Aggregate(context.Background(), tc.date, tc.start, tc.end); !errors.Is(err, domainErrors.ErrInvalidWindow) {
			t.Fatalf("%s: expected invalid window, got %v", tc.name, err)
		}
	}
}
