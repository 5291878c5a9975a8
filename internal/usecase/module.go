package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/solarstore/internal/config"
	"github.com/polkiloo/solarstore/internal/domain/repository"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newAuthUseCase,
	NewCatalogUseCase,
	NewCartUseCase,
	NewOrderUseCase,
	NewReviewUseCase,
	NewNotificationUseCase,
	NewEMIUseCase,
	NewCouponUseCase,
	NewDashboardUseCase,
)

func newAuthUseCase(users repository.UserRepository, outbox repository.OutboxRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, cfg *config.Config) *AuthUseCase {
	return NewAuthUseCase(users, outbox, hasher, strategy, cfg.OTPTTL)
}
