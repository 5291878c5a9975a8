// Package storetest assembles the store facade over in-memory repositories
// for HTTP level tests.
package storetest

import (
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/adapter/mailer"
	"github.com/polkiloo/solarstore/internal/app"
	"github.com/polkiloo/solarstore/internal/config"
	"github.com/polkiloo/solarstore/internal/domain/model"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
	testhelpers "github.com/polkiloo/solarstore/internal/test"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// Env is a fully wired store backed by memory.
type Env struct {
	Store  *testhelpers.MemoryStore
	Facade *app.StoreFacade
	Tokens *pkgAuth.JWTStrategy
	Config *config.Config
}

// New builds an Env with zero tax and a 12% EMI rate.
func New() *Env {
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		SessionTTL:         time.Hour,
		ConfirmationSecret: "confirm-secret",
		ConfirmationTTL:    time.Hour,
		OTPTTL:             time.Minute,
		StorefrontURL:      "http://shop.test",
		TaxRate:            decimal.Zero,
		EMIInterestRate:    decimal.RequireFromString("0.12"),
	}
	store := testhelpers.NewMemoryStore()
	tokens := pkgAuth.NewJWTStrategy(cfg.JWTSecret, pkgAuth.Options{TTL: cfg.SessionTTL})
	signer := pkgAuth.NewConfirmationSigner(cfg.ConfirmationSecret, pkgAuth.Options{TTL: cfg.ConfirmationTTL})
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	emi := usecase.NewEMIUseCase(store.EMI, store.Orders)
	facade := app.NewStoreFacade(app.UseCases{
		Auth:    usecase.NewAuthUseCase(store.Users, store.Outbox, testhelpers.HasherStub{}, tokens, cfg.OTPTTL),
		Catalog: usecase.NewCatalogUseCase(store.Catalog),
		Cart:    usecase.NewCartUseCase(store.Carts, store.Catalog),
		Orders: usecase.NewOrderUseCase(usecase.OrderDependencies{
			Orders:  store.Orders,
			Carts:   store.Carts,
			Users:   store.Users,
			Coupons: store.Coupons,
			Signer:  signer,
			Config:  cfg,
		}),
		Reviews:       usecase.NewReviewUseCase(store.Reviews, store.Catalog),
		Notifications: usecase.NewNotificationUseCase(store.Notifications, store.Outbox, mailer.NewLogMailer(logger)),
		EMI:           emi,
		Coupons:       usecase.NewCouponUseCase(store.Coupons),
		Dashboard:     usecase.NewDashboardUseCase(store.Orders, store.Notifications, emi),
	})
	return &Env{Store: store, Facade: facade, Tokens: tokens, Config: cfg}
}

// User stores a verified account with the given role and returns it with a
// session token.
func (e *Env) User(email string, role model.Role) (*model.User, string) {
	usr := e.Store.Users.Add(model.User{
		Name:          "Test " + string(role),
		Email:         email,
		Phone:         "9000000000",
		PasswordHash:  "hash:password123",
		Role:          role,
		EmailVerified: true,
	})
	token, err := e.Tokens.IssueToken(model.Identity{UserID: usr.ID, Role: role})
	if err != nil {
		panic(err)
	}
	return usr, token
}

// Product adds a catalog entry priced at price.
func (e *Env) Product(name, price string) *model.Product {
	return e.Store.Catalog.Add(model.Product{
		Name:      name,
		Slug:      usecase.Slugify(name),
		Price:     decimal.RequireFromString(price),
		Stock:     10,
		CreatedAt: time.Now(),
	})
}

// ReviewToken returns the confirmation token carried by the latest shipping
// review email.
func (e *Env) ReviewToken() string {
	msg, ok := e.Store.Outbox.Last(model.TemplateShippingReview)
	if !ok {
		return ""
	}
	link, err := url.Parse(msg.Payload["confirmUrl"])
	if err != nil {
		return ""
	}
	return link.Query().Get("token")
}
