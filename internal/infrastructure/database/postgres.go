package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bochino693/Smart-Adega/internal/config"
	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Accounts
		&entity.User{},

		// Catalog
		&entity.Category{},
		&entity.Product{},

		// Stock ledger
		&entity.Batch{},
		&entity.Withdrawal{},

		// Sales
		&entity.Sale{},
		&entity.SaleItem{},

		// Finance
		&entity.ExpenseCategory{},
		&entity.Expense{},
		&entity.MonthlyClosing{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// defaultCategories are created on first boot so sales can flag the
// deduction-exempt kinds from day one
var defaultCategories = []string{
	"cervejas",
	"destilados",
	"refrigerantes",
	"energeticos",
	"combos",
	"doses",
	"fracionados",
	"gelo",
}

// SeedDefaultData seeds the database with default categories and the admin
// user configured through ADMIN_USERNAME / ADMIN_PASSWORD
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	for _, name := range defaultCategories {
		var existing entity.Category
		if err := db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err != nil {
			category := entity.Category{Name: name}
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Warning: failed to create category %s: %v", name, err)
			}
		}
	}

	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminUsername != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("username = ?", adminUsername).First(&existing).Error; err != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Administrator"
				}
				admin := entity.User{
					Username: adminUsername,
					Name:     adminName,
					Password: string(hashed),
					Role:     "admin",
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminUsername)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminUsername)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
