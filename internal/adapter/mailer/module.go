package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/usecase"
)

// Module provides the notification channel implementation.
var Module = fx.Provide(newMailer)

type mailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newMailer(p mailerParams) usecase.Notifier {
	if p.Config.SMTPAddress == "" {
		return NewLogMailer(p.Logger)
	}
	return NewSMTPMailer(p.Config.SMTPAddress, p.Config.SMTPFrom)
}
