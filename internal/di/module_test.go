package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/solarstore/internal/app"
	"github.com/polkiloo/solarstore/internal/config"
	"github.com/polkiloo/solarstore/internal/domain/repository"
	"github.com/polkiloo/solarstore/internal/storage/postgres"
	"github.com/polkiloo/solarstore/internal/test"
	"github.com/polkiloo/solarstore/internal/worker"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		JWTSecret:          "secret",
		SessionTTL:         time.Hour,
		ConfirmationSecret: "confirm",
		ConfirmationTTL:    time.Hour,
		NotifyPollInterval: time.Millisecond,
		NotifyBatchSize:    1,
		WorkerPoolSize:     1,
		ShutdownTimeout:    time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := test.NewMemoryStore()

	var (
		facade     *app.StoreFacade
		engine     *gin.Engine
		dispatcher *worker.NotificationDispatcher
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(store.Users)),
			fx.Replace(repository.CatalogRepository(store.Catalog)),
			fx.Replace(repository.CartRepository(store.Carts)),
			fx.Replace(repository.OrderRepository(store.Orders)),
			fx.Replace(repository.ReviewRepository(store.Reviews)),
			fx.Replace(repository.NotificationRepository(store.Notifications)),
			fx.Replace(repository.OutboxRepository(store.Outbox)),
			fx.Replace(repository.EMIRepository(store.EMI)),
			fx.Replace(repository.CouponRepository(store.Coupons)),
		),
		fx.Populate(&facade, &engine, &dispatcher),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || engine == nil || dispatcher == nil {
		t.Fatal("expected facade, router and dispatcher instances")
	}
}
