package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/solarstore/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
	fx.Provide(newConfirmationSigner),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewJWTStrategy(p.Config.JWTSecret, Options{TTL: p.Config.SessionTTL})
}

func newConfirmationSigner(p strategyParams) *ConfirmationSigner {
	return NewConfirmationSigner(p.Config.ConfirmationSecret, Options{TTL: p.Config.ConfirmationTTL})
}
