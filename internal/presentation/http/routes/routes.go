package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mateusallves/doceria-api/internal/config"
	domainRepo "github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/internal/presentation/http/handler"
	"github.com/mateusallves/doceria-api/internal/presentation/http/middleware"
	"github.com/mateusallves/doceria-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Customer *handler.CustomerHandler
	Catalog  *handler.CatalogHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Event    *handler.EventHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// The contact form on the shop's site posts here without a token
		v1.POST("/contacts", h.Event.CreateContact)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewRateLimiter(&deps.Cfg.RateLimit)
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	registerCustomerRoutes(protected, h)
	registerCatalogRoutes(protected, h)
	registerOrderRoutes(protected, h, deps)
	registerPaymentRoutes(protected, h)
	registerEventRoutes(protected, h)
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PATCH("/:id", h.Customer.Update)
		customers.POST("/:id/deactivate", h.Customer.Deactivate)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/orders", h.Order.ListByCustomer)
		customers.GET("/:id/payments", h.Payment.ListByCustomer)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Catalog.ListProducts)
		products.POST("", h.Catalog.CreateProduct)
		products.GET("/:id", h.Catalog.GetProduct)
		products.PUT("/:id", h.Catalog.UpdateProduct)
		products.DELETE("/:id", h.Catalog.DeleteProduct)
	}

	kits := protected.Group("/kits")
	{
		kits.GET("", h.Catalog.ListKits)
		kits.POST("", h.Catalog.CreateKit)
		kits.GET("/:id", h.Catalog.GetKit)
		kits.PUT("/:id", h.Catalog.UpdateKit)
		kits.DELETE("/:id", h.Catalog.DeleteKit)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Catalog.ListCategories)
		categories.POST("", h.Catalog.CreateCategory)
		categories.GET("/:id", h.Catalog.GetCategory)
		categories.PUT("/:id", h.Catalog.UpdateCategory)
		categories.DELETE("/:id", h.Catalog.DeleteCategory)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		// Order creation replays through idempotency keys to prevent duplicates
		orders.POST("", middleware.Idempotency(deps.IdempotencyRepo), h.Order.Create)
		orders.GET("/pending", h.Order.ListPending)
		orders.GET("/today", h.Order.ListToday)
		orders.GET("/statistics", h.Order.Statistics)
		orders.GET("/count", h.Order.Count)
		orders.GET("/number/:number", h.Order.GetByNumber)
		orders.GET("/:id", h.Order.Get)
		orders.PATCH("/:id", h.Order.Update)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.GET("/:id/payments", h.Payment.ListByOrder)
		orders.GET("/:id/payments/approved", h.Payment.GetApprovedByOrder)
		orders.POST("/:id/payments/ensure", h.Payment.EnsureForOrder)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers) {
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.POST("", h.Payment.Create)
		payments.POST("/cash", h.Payment.CreateCash)
		payments.POST("/pix", h.Payment.CreatePix)
		payments.POST("/card", h.Payment.CreateCard)
		payments.GET("/statistics", h.Payment.Statistics)
		payments.GET("/count", h.Payment.Count)
		payments.GET("/:id", h.Payment.Get)
		payments.GET("/:id/history", h.Payment.History)
		payments.POST("/:id/confirm", h.Payment.Confirm)
		payments.POST("/:id/refuse", h.Payment.Refuse)
		payments.POST("/:id/reverse", h.Payment.Reverse)
		payments.POST("/:id/cancel", h.Payment.Cancel)
	}
}

func registerEventRoutes(protected *gin.RouterGroup, h *Handlers) {
	events := protected.Group("/events")
	{
		events.GET("", h.Event.List)
		events.POST("", h.Event.Create)
		events.GET("/:id", h.Event.Get)
		events.PUT("/:id", h.Event.Update)
		events.DELETE("/:id", h.Event.Delete)
	}

	contacts := protected.Group("/contacts")
	{
		contacts.GET("", h.Event.ListContacts)
		contacts.GET("/:id", h.Event.GetContact)
		contacts.DELETE("/:id", h.Event.DeleteContact)
	}
}
