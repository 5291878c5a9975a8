package app

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// UseCases groups every application service behind the store facade.
type UseCases struct {
	fx.In

	Auth          *usecase.AuthUseCase
	Catalog       *usecase.CatalogUseCase
	Cart          *usecase.CartUseCase
	Orders        *usecase.OrderUseCase
	Reviews       *usecase.ReviewUseCase
	Notifications *usecase.NotificationUseCase
	EMI           *usecase.EMIUseCase
	Coupons       *usecase.CouponUseCase
	Dashboard     *usecase.DashboardUseCase
}

// StoreFacade adapts use cases to the HTTP handlers and the outbox dispatcher.
type StoreFacade struct {
	uc UseCases
}

func NewStoreFacade(uc UseCases) *StoreFacade {
	return &StoreFacade{uc: uc}
}

func (f *StoreFacade) Register(ctx context.Context, in usecase.RegisterInput) (*model.User, error) {
	return f.uc.Auth.Register(ctx, in)
}

func (f *StoreFacade) VerifyEmail(ctx context.Context, email, otp string) (*model.User, string, error) {
	return f.uc.Auth.VerifyEmail(ctx, email, otp)
}

func (f *StoreFacade) ResendOTP(ctx context.Context, email string) error {
	return f.uc.Auth.ResendOTP(ctx, email)
}

func (f *StoreFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.uc.Auth.Authenticate(ctx, email, password)
}

func (f *StoreFacade) ParseToken(token string) (model.Identity, error) {
	return f.uc.Auth.ParseToken(token)
}

func (f *StoreFacade) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	return f.uc.Auth.GetByID(ctx, userID)
}

func (f *StoreFacade) EnsureAdmin(ctx context.Context, email, password string) error {
	return f.uc.Auth.EnsureAdmin(ctx, email, password)
}

func (f *StoreFacade) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	return f.uc.Catalog.ListProducts(ctx, filter)
}

func (f *StoreFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.uc.Catalog.GetProduct(ctx, id)
}

func (f *StoreFacade) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return f.uc.Catalog.GetProductBySlug(ctx, slug)
}

func (f *StoreFacade) RelatedProducts(ctx context.Context, id int64, limit int) ([]model.Product, error) {
	return f.uc.Catalog.RelatedProducts(ctx, id, limit)
}

func (f *StoreFacade) RecommendedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return f.uc.Catalog.RecommendedProducts(ctx, limit)
}

func (f *StoreFacade) Categories(ctx context.Context) ([]model.Category, error) {
	return f.uc.Catalog.ListCategories(ctx)
}

func (f *StoreFacade) CreateProduct(ctx context.Context, in usecase.ProductInput) (*model.Product, error) {
	return f.uc.Catalog.CreateProduct(ctx, in)
}

func (f *StoreFacade) UpdateProduct(ctx context.Context, id int64, in usecase.ProductInput) (*model.Product, error) {
	return f.uc.Catalog.UpdateProduct(ctx, id, in)
}

func (f *StoreFacade) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	return f.uc.Catalog.CreateCategory(ctx, name, description)
}

func (f *StoreFacade) Cart(ctx context.Context, userID int64) (*model.Cart, error) {
	return f.uc.Cart.Get(ctx, userID)
}

func (f *StoreFacade) AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error) {
	return f.uc.Cart.AddItem(ctx, userID, productID, quantity)
}

func (f *StoreFacade) SetCartQuantity(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error) {
	return f.uc.Cart.SetQuantity(ctx, userID, productID, quantity)
}

func (f *StoreFacade) RemoveCartItem(ctx context.Context, userID, productID int64) (*model.Cart, error) {
	return f.uc.Cart.RemoveItem(ctx, userID, productID)
}

func (f *StoreFacade) ClearCart(ctx context.Context, userID int64) error {
	return f.uc.Cart.Clear(ctx, userID)
}

func (f *StoreFacade) CartCount(ctx context.Context, userID int64) (int, error) {
	return f.uc.Cart.Count(ctx, userID)
}

func (f *StoreFacade) PlaceOrder(ctx context.Context, userID int64, in usecase.PlaceOrderInput) (*model.Order, error) {
	return f.uc.Orders.Place(ctx, userID, in)
}

func (f *StoreFacade) Orders(ctx context.Context, userID int64, q usecase.OrderQuery) ([]model.Order, int, error) {
	return f.uc.Orders.List(ctx, userID, q)
}

func (f *StoreFacade) Order(ctx context.Context, userID int64, id string) (*model.Order, error) {
	return f.uc.Orders.Get(ctx, userID, id)
}

func (f *StoreFacade) CancelOrder(ctx context.Context, userID int64, id, reason string) (*model.Order, error) {
	return f.uc.Orders.Cancel(ctx, userID, id, reason)
}

func (f *StoreFacade) OrderEMIPlan(ctx context.Context, userID int64, orderID string) (*model.EMIPlan, error) {
	return f.uc.EMI.ForOrder(ctx, userID, orderID)
}

func (f *StoreFacade) AssignShipping(ctx context.Context, orderID string, fee decimal.Decimal, comment string) (*model.Order, error) {
	return f.uc.Orders.AssignShipping(ctx, orderID, fee, comment)
}

func (f *StoreFacade) PreviewReview(ctx context.Context, orderID, token string) (*model.Order, error) {
	return f.uc.Orders.PreviewByToken(ctx, orderID, token)
}

func (f *StoreFacade) ConfirmReview(ctx context.Context, orderID, token string) (*model.Order, error) {
	return f.uc.Orders.ConfirmByToken(ctx, orderID, token)
}

func (f *StoreFacade) CancelReview(ctx context.Context, orderID, token, reason string) (*model.Order, error) {
	return f.uc.Orders.CancelByToken(ctx, orderID, token, reason)
}

func (f *StoreFacade) AdminOrders(ctx context.Context, q usecase.AdminOrderQuery) ([]model.Order, int, error) {
	return f.uc.Orders.AdminList(ctx, q)
}

func (f *StoreFacade) AdminOrder(ctx context.Context, id string) (*model.Order, error) {
	return f.uc.Orders.AdminGet(ctx, id)
}

func (f *StoreFacade) AdvanceOrder(ctx context.Context, id, status, comment string) (*model.Order, error) {
	return f.uc.Orders.AdminAdvance(ctx, id, status, comment)
}

func (f *StoreFacade) ExportOrders(ctx context.Context, w io.Writer, q usecase.AdminOrderQuery) error {
	return f.uc.Orders.Export(ctx, w, q)
}

func (f *StoreFacade) Reviews(ctx context.Context, productID int64, page model.Page) ([]model.Review, int, model.RatingSummary, error) {
	return f.uc.Reviews.List(ctx, productID, page)
}

func (f *StoreFacade) UpsertReview(ctx context.Context, userID, productID int64, rating int, comment string) (*model.Review, error) {
	return f.uc.Reviews.Upsert(ctx, userID, productID, rating, comment)
}

func (f *StoreFacade) DeleteReview(ctx context.Context, userID, productID int64) error {
	return f.uc.Reviews.Delete(ctx, userID, productID)
}

func (f *StoreFacade) Notifications(ctx context.Context, userID int64, unreadOnly bool, page model.Page) ([]model.Notification, int, error) {
	return f.uc.Notifications.List(ctx, userID, unreadOnly, page)
}

func (f *StoreFacade) UnreadNotifications(ctx context.Context, userID int64) (int, error) {
	return f.uc.Notifications.UnreadCount(ctx, userID)
}

func (f *StoreFacade) SetNotificationRead(ctx context.Context, userID, id int64, read bool) error {
	return f.uc.Notifications.SetRead(ctx, userID, id, read)
}

func (f *StoreFacade) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	return f.uc.Notifications.MarkAllRead(ctx, userID)
}

func (f *StoreFacade) PendingEmails(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	return f.uc.Notifications.PendingEmails(ctx, limit)
}

func (f *StoreFacade) SendEmail(ctx context.Context, msg model.EmailMessage) error {
	return f.uc.Notifications.SendEmail(ctx, msg)
}

func (f *StoreFacade) MarkEmailSent(ctx context.Context, id int64) error {
	return f.uc.Notifications.MarkEmailSent(ctx, id)
}

func (f *StoreFacade) MarkEmailFailed(ctx context.Context, id int64, reason string) error {
	return f.uc.Notifications.MarkEmailFailed(ctx, id, reason)
}

func (f *StoreFacade) EMIPlans(ctx context.Context, userID int64) ([]model.EMIPlan, error) {
	return f.uc.EMI.List(ctx, userID)
}

func (f *StoreFacade) EMIPlan(ctx context.Context, userID, id int64) (*model.EMIPlan, error) {
	return f.uc.EMI.Get(ctx, userID, id)
}

func (f *StoreFacade) CreateCoupon(ctx context.Context, in usecase.CouponInput) (*model.Coupon, error) {
	return f.uc.Coupons.Create(ctx, in)
}

func (f *StoreFacade) PreviewCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	return f.uc.Coupons.Preview(ctx, code, subtotal)
}

func (f *StoreFacade) Dashboard(ctx context.Context, userID int64) (*usecase.Dashboard, error) {
	return f.uc.Dashboard.Summary(ctx, userID)
}
