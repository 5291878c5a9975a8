package handlers

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*model.User, error)
	VerifyEmail(ctx context.Context, email, otp string) (*model.User, string, error)
	ResendOTP(ctx context.Context, email string) error
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (model.Identity, error)
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
}

// CatalogFacade exposes products and categories.
type CatalogFacade interface {
	Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	RelatedProducts(ctx context.Context, id int64, limit int) ([]model.Product, error)
	RecommendedProducts(ctx context.Context, limit int) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	CreateProduct(ctx context.Context, in usecase.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, in usecase.ProductInput) (*model.Product, error)
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
}

// CartFacade manages the server-side cart of the caller.
type CartFacade interface {
	Cart(ctx context.Context, userID int64) (*model.Cart, error)
	AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error)
	SetCartQuantity(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, userID, productID int64) (*model.Cart, error)
	ClearCart(ctx context.Context, userID int64) error
	CartCount(ctx context.Context, userID int64) (int, error)
}

// OrderFacade encapsulates customer order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID int64, in usecase.PlaceOrderInput) (*model.Order, error)
	Orders(ctx context.Context, userID int64, q usecase.OrderQuery) ([]model.Order, int, error)
	Order(ctx context.Context, userID int64, id string) (*model.Order, error)
	CancelOrder(ctx context.Context, userID int64, id, reason string) (*model.Order, error)
	OrderEMIPlan(ctx context.Context, userID int64, orderID string) (*model.EMIPlan, error)
}

// ShippingReviewFacade covers the shipping fee round trip between admin and customer.
type ShippingReviewFacade interface {
	AssignShipping(ctx context.Context, orderID string, fee decimal.Decimal, comment string) (*model.Order, error)
	PreviewReview(ctx context.Context, orderID, token string) (*model.Order, error)
	ConfirmReview(ctx context.Context, orderID, token string) (*model.Order, error)
	CancelReview(ctx context.Context, orderID, token, reason string) (*model.Order, error)
}

// AdminOrderFacade lists and advances orders of every customer.
type AdminOrderFacade interface {
	AdminOrders(ctx context.Context, q usecase.AdminOrderQuery) ([]model.Order, int, error)
	AdminOrder(ctx context.Context, id string) (*model.Order, error)
	AdvanceOrder(ctx context.Context, id, status, comment string) (*model.Order, error)
	ExportOrders(ctx context.Context, w io.Writer, q usecase.AdminOrderQuery) error
}

// ReviewFacade manages product reviews.
type ReviewFacade interface {
	Reviews(ctx context.Context, productID int64, page model.Page) ([]model.Review, int, model.RatingSummary, error)
	UpsertReview(ctx context.Context, userID, productID int64, rating int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, productID int64) error
}

// NotificationFacade reads and acknowledges in-app notifications.
type NotificationFacade interface {
	Notifications(ctx context.Context, userID int64, unreadOnly bool, page model.Page) ([]model.Notification, int, error)
	UnreadNotifications(ctx context.Context, userID int64) (int, error)
	SetNotificationRead(ctx context.Context, userID, id int64, read bool) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
}

type EMIFacade interface {
	EMIPlans(ctx context.Context, userID int64) ([]model.EMIPlan, error)
	EMIPlan(ctx context.Context, userID, id int64) (*model.EMIPlan, error)
}

type CouponFacade interface {
	CreateCoupon(ctx context.Context, in usecase.CouponInput) (*model.Coupon, error)
	PreviewCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error)
}

type DashboardFacade interface {
	Dashboard(ctx context.Context, userID int64) (*usecase.Dashboard, error)
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CatalogFacade
	CartFacade
	OrderFacade
	ShippingReviewFacade
	AdminOrderFacade
	ReviewFacade
	NotificationFacade
	EMIFacade
	CouponFacade
	DashboardFacade
}
