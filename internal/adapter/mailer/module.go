package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/solarstore/internal/config"
)

// Module exposes mailer implementation to fx graph.
var Module = fx.Provide(newMailer)

type mailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newMailer(p mailerParams) (Mailer, error) {
	if p.Config.MailerAddress == "" {
		return NewLogMailer(p.Logger), nil
	}
	return NewHTTPClient(p.Config.MailerAddress, p.Logger)
}
