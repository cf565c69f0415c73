package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewCartUseCase,
	newOrderUseCase,
	newRatingUseCase,
	NewSalesUseCase,
)

type orderParams struct {
	fx.In

	Orders   repository.OrderRepository
	Carts    repository.CartRepository
	Catalog  repository.CatalogRepository
	Gateway  PaymentGateway
	Verifier SignatureVerifier
	Notifier Notifier
	Config   *config.Config
	Logger   *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Carts, p.Catalog, p.Gateway, p.Verifier, p.Notifier, p.Config.DeliveryFee, p.Logger)
}

type ratingParams struct {
	fx.In

	Ratings repository.RatingRepository
	Orders  repository.OrderRepository
	Config  *config.Config
}

func newRatingUseCase(p ratingParams) *RatingUseCase {
	return NewRatingUseCase(p.Ratings, p.Orders, p.Config.ReviewMaxLength)
}
