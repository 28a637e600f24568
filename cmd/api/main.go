package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Bochino693/Smart-Adega/internal/application/service"
	"github.com/Bochino693/Smart-Adega/internal/cache"
	"github.com/Bochino693/Smart-Adega/internal/config"
	"github.com/Bochino693/Smart-Adega/internal/infrastructure/database"
	"github.com/Bochino693/Smart-Adega/internal/infrastructure/repository"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/handler"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/routes"
	"github.com/Bochino693/Smart-Adega/pkg/keylock"
	"github.com/Bochino693/Smart-Adega/pkg/utils"
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
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	expenseCategoryRepo := repository.NewExpenseCategoryRepository(db)
	closingRepo := repository.NewClosingRepository(db)

	// Closing cache: Redis when configured, otherwise a noop
	var closingCache cache.ClosingCache = cache.NoopClosingCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisClosingCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		closingCache = redisCache
		log.Printf("Closing cache backed by Redis at %s", cfg.Redis.Addr)
	}

	// One lock table shared by every service that touches the batch ledger
	locks := keylock.New()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo, categoryRepo)
	stockService := service.NewStockService(txManager, productRepo, batchRepo, withdrawalRepo, locks)
	financeService := service.NewFinanceService(txManager, saleRepo, expenseRepo, expenseCategoryRepo, closingRepo, closingCache)
	saleService := service.NewSaleService(txManager, saleRepo, productRepo, stockService, financeService, locks)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Stock:   handler.NewStockHandler(stockService),
		Sale:    handler.NewSaleHandler(saleService),
		Finance: handler.NewFinanceHandler(financeService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
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
