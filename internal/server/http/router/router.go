package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/solarstore/internal/config"
	"github.com/polkiloo/solarstore/internal/server/http/handlers"
	"github.com/polkiloo/solarstore/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	reviewHandler := handlers.NewReviewHandler(facade)
	shippingHandler := handlers.NewShippingReviewHandler(facade)
	adminOrders := handlers.NewAdminOrderHandler(facade)
	notificationHandler := handlers.NewNotificationHandler(facade)
	accountHandler := handlers.NewAccountHandler(facade, facade, facade)

	requireAuth := middleware.AuthRequired(facade)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.POST("/resend-otp", authHandler.ResendOTP)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", requireAuth, authHandler.Me)

	products := api.Group("/products")
	products.GET("", catalogHandler.List)
	products.GET("/recommended", catalogHandler.Recommended)
	products.GET("/slug/:slug", catalogHandler.GetBySlug)
	products.GET("/:id", catalogHandler.Get)
	products.GET("/:id/related", catalogHandler.Related)
	products.GET("/:id/reviews", reviewHandler.List)
	products.POST("/:id/reviews", requireAuth, reviewHandler.Upsert)
	products.DELETE("/:id/reviews", requireAuth, reviewHandler.Delete)
	api.GET("/categories", catalogHandler.Categories)
	api.GET("/coupons/:code", accountHandler.PreviewCoupon)

	review := api.Group("/order-review", middleware.NoStore())
	review.GET("/:orderId", shippingHandler.Preview)
	review.POST("/:orderId/confirm", shippingHandler.Confirm)
	review.POST("/:orderId/cancel-request", shippingHandler.CancelRequest)

	user := api.Group("", requireAuth)

	cart := user.Group("/cart")
	cart.GET("", cartHandler.Get)
	cart.DELETE("", cartHandler.Clear)
	cart.GET("/count", cartHandler.Count)
	cart.POST("/items", cartHandler.AddItem)
	cart.PUT("/items/:productId", cartHandler.SetQuantity)
	cart.DELETE("/items/:productId", cartHandler.RemoveItem)

	orders := user.Group("/orders", middleware.NoStore())
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id/cancel", orderHandler.Cancel)
	orders.GET("/:id/emi", orderHandler.EMIPlan)

	notifications := user.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.PUT("/:id/unread", notificationHandler.MarkUnread)

	user.GET("/emi-plans", accountHandler.EMIPlans)
	user.GET("/emi-plans/:id", accountHandler.EMIPlan)
	user.GET("/dashboard", accountHandler.Dashboard)

	admin := api.Group("", requireAuth, middleware.AdminOnly())
	admin.PUT("/shipping/charges/:orderId", shippingHandler.AssignShipping)

	adminAPI := admin.Group("/admin")
	adminAPI.GET("/orders", middleware.NoStore(), adminOrders.List)
	adminAPI.GET("/orders/export", adminOrders.Export)
	adminAPI.GET("/orders/:id", middleware.NoStore(), adminOrders.Get)
	adminAPI.PUT("/orders/:id/status", adminOrders.UpdateStatus)
	adminAPI.POST("/products", catalogHandler.Create)
	adminAPI.PUT("/products/:id", catalogHandler.Update)
	adminAPI.POST("/categories", catalogHandler.CreateCategory)
	adminAPI.POST("/coupons", accountHandler.CreateCoupon)

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Content-Encoding"},
		ExposeHeaders: []string{"Authorization", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
