package auth

import (
	"github.com/greenbasket/greenbasket/internal/config"
	"go.uber.org/fx"
)

// Module provides the token verification strategy via fx.
var Module = fx.Provide(newTokenStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.AuthTokenSecret, Options{})
}
