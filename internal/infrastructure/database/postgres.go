package database

import (
	"fmt"
	"log"

	"github.com/mateusallves/doceria-api/internal/config"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// Surfaces unique-constraint violations as gorm.ErrDuplicatedKey so
		// the services can map them to conflicts.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities plus the constraints
// auto-migration cannot express
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Accounts
		&entity.User{},
		&entity.Customer{},

		// Catalog
		&entity.Category{},
		&entity.Product{},
		&entity.Kit{},

		// Orders and payments
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderCounter{},
		&entity.Payment{},
		&entity.PaymentHistory{},

		// Site content
		&entity.Event{},
		&entity.ContactMessage{},

		// System
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// At most one approved payment per order. Concurrent confirms race on the
	// application-level check, so the database has the final word.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_payments_one_approved
		 ON payments (order_id) WHERE status = 'aprovado'`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to create approved-payment index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with a default admin user so a fresh
// install can log in
func SeedDefaultData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default admin user...")

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &entity.User{
		Name:     "Admin",
		Email:    "admin@doceria.local",
		Password: string(hashed),
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("Warning: failed to seed admin user: %v", err)
	}

	return nil
}
