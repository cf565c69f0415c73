package di

import (
	"go.uber.org/fx"

	"github.com/greenbasket/greenbasket/internal/adapter/mailer"
	"github.com/greenbasket/greenbasket/internal/adapter/payment"
	"github.com/greenbasket/greenbasket/internal/app"
	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/logger"
	"github.com/greenbasket/greenbasket/internal/pkg/auth"
	"github.com/greenbasket/greenbasket/internal/server/http/handlers"
	"github.com/greenbasket/greenbasket/internal/server/http/router"
	"github.com/greenbasket/greenbasket/internal/storage/postgres"
	"github.com/greenbasket/greenbasket/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		mailer.Module,
		usecase.Module,
		fx.Provide(
			func(client payment.Client) usecase.PaymentGateway { return client },
			func(client payment.Client) app.PaymentProvider { return client },
			func(storage *postgres.Storage) app.Pinger { return storage },
			func(facade *app.CommerceFacade) handlers.CommerceFacade { return facade },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
