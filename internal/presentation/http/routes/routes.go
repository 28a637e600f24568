package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bochino693/Smart-Adega/internal/config"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/handler"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/middleware"
	"github.com/Bochino693/Smart-Adega/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Stock   *handler.StockHandler
	Sale    *handler.SaleHandler
	Finance *handler.FinanceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Operator accounts (admin only)
	users := protected.Group("/users")
	users.Use(middleware.RequireRole("admin"))
	{
		users.POST("", h.Auth.CreateUser)
		users.GET("", h.Auth.ListUsers)
	}

	// Catalog
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Product.ListCategories)
		categories.POST("", h.Product.CreateCategory)
		categories.DELETE("/:id", h.Product.DeleteCategory)
	}

	// Stock ledger
	stock := protected.Group("/stock")
	{
		stock.POST("", h.Stock.AddStock)
		stock.POST("/bulk", h.Stock.BulkAddStock)
		stock.POST("/deduct", h.Stock.DeductStock)
		stock.POST("/deduct/bulk", h.Stock.BulkDeductStock)
		stock.GET("/batches", h.Stock.ListBatches)
		stock.GET("/withdrawals", h.Stock.ListWithdrawals)
		stock.GET("/shopping-list", h.Stock.ShoppingList)
	}

	// Sales
	sales := protected.Group("/sales")
	{
		sales.POST("", h.Sale.Finalize)
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/settle", h.Sale.Settle)
	}

	// Expenses
	expenses := protected.Group("/expenses")
	{
		expenses.GET("", h.Finance.ListExpenses)
		expenses.POST("", h.Finance.CreateExpense)
		expenses.PUT("/:id", h.Finance.UpdateExpense)
		expenses.DELETE("/:id", h.Finance.DeleteExpense)
	}
	expenseCategories := protected.Group("/expense-categories")
	{
		expenseCategories.GET("", h.Finance.ListExpenseCategories)
		expenseCategories.POST("", h.Finance.CreateExpenseCategory)
		expenseCategories.DELETE("/:id", h.Finance.DeleteExpenseCategory)
	}

	// Monthly closings
	closings := protected.Group("/closings")
	{
		closings.GET("", h.Finance.ListClosings)
		closings.GET("/period", h.Finance.GetClosing)
		closings.POST("/recompute", h.Finance.Recompute)
	}
}
