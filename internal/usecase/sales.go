package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// SalesUseCase rolls up delivered, payment-confirmed orders into per-category
// totals for a requested window. Rollups are computed on demand and never
// persisted.
type SalesUseCase struct {
	orders  repository.OrderRepository
	catalog repository.CatalogRepository
}

// NewSalesUseCase constructs SalesUseCase.
func NewSalesUseCase(orders repository.OrderRepository, catalog repository.CatalogRepository) *SalesUseCase {
	return &SalesUseCase{orders: orders, catalog: catalog}
}

// Aggregate accepts either a single calendar date or an inclusive start/end
// pair, both as YYYY-MM-DD at UTC day boundaries. An item contributes its
// subtotal and quantity to every category it belongs to; categories without
// sales in the window are omitted.
func (u *SalesUseCase) Aggregate(ctx context.Context, singleDate, start, end string) ([]model.CategorySales, error) {
	windowStart, windowEnd, err := resolveWindow(singleDate, start, end)
	if err != nil {
		return nil, err
	}

	orders, err := u.orders.ListDeliveredBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	itemIDSet := make(map[string]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			itemIDSet[item.ItemID] = struct{}{}
		}
	}
	itemIDs := make([]string, 0, len(itemIDSet))
	for id := range itemIDSet {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	categories, err := u.catalog.CategoriesForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*model.CategorySales)
	for _, order := range orders {
		for _, item := range order.Items {
			for _, category := range categories[item.ItemID] {
				row, ok := totals[category]
				if !ok {
					row = &model.CategorySales{Category: category}
					totals[category] = row
				}
				row.TotalSales += item.Subtotal()
				row.TotalQuantity += int64(item.Quantity)
			}
		}
	}

	result := make([]model.CategorySales, 0, len(totals))
	for _, row := range totals {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

// resolveWindow turns the raw query into [start, end) UTC bounds.
func resolveWindow(singleDate, start, end string) (time.Time, time.Time, error) {
	var zero time.Time

	if singleDate != "" {
		day, err := time.ParseInLocation(dateLayout, singleDate, time.UTC)
		if err != nil {
			return zero, zero, fmt.Errorf("%w: bad date %q", domainErrors.ErrInvalidWindow, singleDate)
		}
		return day, day.AddDate(0, 0, 1), nil
	}

	if start == "" || end == "" {
		return zero, zero, fmt.Errorf("%w: either a date or a start/end pair is required", domainErrors.ErrInvalidWindow)
	}

	startDay, err := time.ParseInLocation(dateLayout, start, time.UTC)
	if err != nil {
		return zero, zero, fmt.Errorf("%w: bad start date %q", domainErrors.ErrInvalidWindow, start)
	}
	endDay, err := time.ParseInLocation(dateLayout, end, time.UTC)
	if err != nil {
		return zero, zero, fmt.Errorf("%w: bad end date %q", domainErrors.ErrInvalidWindow, end)
	}
	if startDay.After(endDay) {
		return zero, zero, fmt.Errorf("%w: start is after end", domainErrors.ErrInvalidWindow)
	}
	return startDay, endDay.AddDate(0, 0, 1), nil
}
