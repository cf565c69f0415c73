package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/usecase"
)

// Module exposes payment client and signature verifier to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(newVerifier),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PaymentSystemAddress, p.Logger)
}

func newVerifier(cfg *config.Config) usecase.SignatureVerifier {
	return NewVerifier(cfg.PaymentWebhookSecret)
}
