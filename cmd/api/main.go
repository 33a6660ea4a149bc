package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mateusallves/doceria-api/internal/application/service"
	"github.com/mateusallves/doceria-api/internal/config"
	"github.com/mateusallves/doceria-api/internal/infrastructure/database"
	"github.com/mateusallves/doceria-api/internal/infrastructure/repository"
	"github.com/mateusallves/doceria-api/internal/presentation/http/handler"
	"github.com/mateusallves/doceria-api/internal/presentation/http/routes"
	"github.com/mateusallves/doceria-api/pkg/email"
	"github.com/mateusallves/doceria-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	kitRepo := repository.NewKitRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	paymentHistoryRepo := repository.NewPaymentHistoryRepository(db)
	eventRepo := repository.NewEventRepository(db)
	contactRepo := repository.NewContactRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service when enabled
	var notifier *email.EmailService
	if cfg.Email.Enabled {
		notifier = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo, orderRepo)
	catalogService := service.NewCatalogService(productRepo, kitRepo, categoryRepo)
	paymentService := service.NewPaymentService(paymentRepo, paymentHistoryRepo, orderRepo, customerRepo)
	eventService := service.NewEventService(eventRepo, contactRepo)

	orderService := service.NewOrderService(orderRepo, customerRepo, productRepo, kitRepo, paymentService, nil)
	if notifier != nil {
		orderService.SetNotifier(notifier)
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Customer: handler.NewCustomerHandler(customerService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Order:    handler.NewOrderHandler(orderService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Event:    handler.NewEventHandler(eventService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
