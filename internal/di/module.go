package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/solarstore/internal/adapter/mailer"
	"github.com/polkiloo/solarstore/internal/app"
	"github.com/polkiloo/solarstore/internal/config"
	"github.com/polkiloo/solarstore/internal/logger"
	"github.com/polkiloo/solarstore/internal/pkg/auth"
	"github.com/polkiloo/solarstore/internal/server/http/router"
	"github.com/polkiloo/solarstore/internal/storage/postgres"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// Module assembles the whole store. Extra options are applied last so tests
// can replace infrastructure.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mailer.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
