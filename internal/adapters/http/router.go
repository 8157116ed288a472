// Package http - Router configuration for REST API.
//
// Router assembles handlers and middleware behind one entry point.
//
// Pattern: Composition Root
// - every dependency is wired here
// - handlers receive only the use cases they need
// - middleware applies to the route groups it belongs to
package http

import (
	"log/slog"

	"github.com/vinayak20130/ledgervault/internal/adapters/http/common"
	"github.com/vinayak20130/ledgervault/internal/adapters/http/handlers"
	"github.com/vinayak20130/ledgervault/internal/adapters/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig configures the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Pool               *pgxpool.Pool
	Version            string
	BuildTime          string
	Environment        string
	AllowedOrigins     []string
	AuthTokenValidator func(token string) (*middleware.AuthClaims, error)
}

// DefaultRouterConfig is a development-suitable default configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:             slog.Default(),
		Version:            "dev",
		BuildTime:          "unknown",
		Environment:        "development",
		AllowedOrigins:     []string{"*"},
		AuthTokenValidator: middleware.MockTokenValidator,
	}
}

// ============================================
// Use Case Providers
// ============================================

// UserUseCases provides the use cases the user routes need.
type UserUseCases struct {
	CreateUser handlers.CreateUserUseCase
	GetUser    handlers.GetUserUseCase
	ListUsers  handlers.ListUsersUseCase
}

// WalletUseCases provides the use cases the wallet routes need.
type WalletUseCases struct {
	CreateWallet handlers.CreateWalletUseCase
	GetWallet    handlers.GetWalletUseCase
	ListWallets  handlers.ListWalletsUseCase
}

// TransactionUseCases provides the use cases the transaction routes need.
type TransactionUseCases struct {
	TopUp               handlers.TopUpUseCase
	Bonus               handlers.BonusUseCase
	Purchase            handlers.PurchaseUseCase
	GetTransaction      handlers.GetTransactionUseCase
	ListTransactions    handlers.ListTransactionsUseCase
	GetByIdempotencyKey handlers.GetTransactionByIdempotencyKeyUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder incrementally assembles a gin.Engine.
//
// Pattern: Builder
type RouterBuilder struct {
	config       *RouterConfig
	users        *UserUseCases
	wallets      *WalletUseCases
	transactions *TransactionUseCases
}

// NewRouterBuilder creates a new builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &RouterBuilder{
		config: config,
	}
}

// WithUserUseCases attaches user use cases.
func (b *RouterBuilder) WithUserUseCases(useCases *UserUseCases) *RouterBuilder {
	b.users = useCases
	return b
}

// WithWalletUseCases attaches wallet use cases.
func (b *RouterBuilder) WithWalletUseCases(useCases *WalletUseCases) *RouterBuilder {
	b.wallets = useCases
	return b
}

// WithTransactionUseCases attaches transaction use cases.
func (b *RouterBuilder) WithTransactionUseCases(useCases *TransactionUseCases) *RouterBuilder {
	b.transactions = useCases
	return b
}

// Build produces the configured gin Engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	router.Use(middleware.RequestID())

	if b.config.Environment == "production" {
		router.Use(middleware.CORS(middleware.ProductionCORSConfig(b.config.AllowedOrigins)))
	} else {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}

	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics"},
	}))

	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	router.Use(middleware.Metrics())

	// ============================================
	// Metrics Endpoint (no auth)
	// ============================================

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============================================
	// Health Check Routes (no auth)
	// ============================================

	healthHandler := handlers.NewHealthHandler(
		b.config.Pool,
		b.config.Version,
		b.config.BuildTime,
	)
	healthHandler.RegisterRoutes(router)

	// ============================================
	// API v1 Routes
	// ============================================

	v1 := router.Group("/api/v1")

	// Public routes (no auth required)
	publicGroup := v1.Group("")
	{
		if b.users != nil {
			userHandler := handlers.NewUserHandler(
				b.users.CreateUser,
				b.users.GetUser,
				b.users.ListUsers,
			)
			publicGroup.POST("/users", userHandler.CreateUser)
		}
	}

	// Protected routes (auth required)
	protectedGroup := v1.Group("")
	protectedGroup.Use(middleware.Auth(&middleware.AuthConfig{
		TokenValidator: b.config.AuthTokenValidator,
		SkipPaths:      []string{},
	}))
	{
		if b.users != nil {
			userHandler := handlers.NewUserHandler(
				b.users.CreateUser,
				b.users.GetUser,
				b.users.ListUsers,
			)
			users := protectedGroup.Group("/users")
			{
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
			}
		}

		if b.wallets != nil {
			walletHandler := handlers.NewWalletHandler(
				b.wallets.CreateWallet,
				b.wallets.GetWallet,
				b.wallets.ListWallets,
			)
			wallets := protectedGroup.Group("/wallets")
			{
				wallets.POST("", walletHandler.CreateWallet)
				wallets.GET("", walletHandler.ListWallets)
				wallets.GET("/me", walletHandler.GetMyWallets)
				wallets.GET("/:id", walletHandler.GetWallet)
			}
		}

		if b.transactions != nil {
			txHandler := handlers.NewTransactionHandler(
				b.transactions.TopUp,
				b.transactions.Bonus,
				b.transactions.Purchase,
				b.transactions.GetTransaction,
				b.transactions.ListTransactions,
				b.transactions.GetByIdempotencyKey,
			)
			transactions := protectedGroup.Group("/transactions")
			{
				transactions.GET("", txHandler.ListTransactions)
				transactions.GET("/:id", txHandler.GetTransaction)
				transactions.GET("/by-key/:key", txHandler.GetTransactionByIdempotencyKey)

				// Value movements get stricter rate limiting.
				financialOps := transactions.Group("")
				financialOps.Use(middleware.TransactionRateLimit())
				{
					financialOps.POST("/top-up", txHandler.TopUp)
					financialOps.POST("/bonus", txHandler.Bonus)
					financialOps.POST("/purchase", txHandler.Purchase)
				}
			}

			// Nested route: /wallets/:id/transactions
			if b.wallets != nil {
				protectedGroup.GET("/wallets/:id/transactions", txHandler.GetWalletTransactions)
			}
		}
	}

	// ============================================
	// Admin Routes (admin role required)
	// ============================================

	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.Auth(&middleware.AuthConfig{
		TokenValidator: b.config.AuthTokenValidator,
	}))
	adminGroup.Use(middleware.RequireRole("admin"))
	{
		// Reserved for future admin-only endpoints (e.g. full transaction audit).
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.Error(c, 404, &common.APIError{
			Code:    common.ErrCodeNotFound,
			Message: "Endpoint not found",
			Details: map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			},
		})
	})

	return router
}

// ============================================
// Quick Setup Functions
// ============================================

// NewRouter builds a router from the given configuration.
func NewRouter(config *RouterConfig) *gin.Engine {
	return NewRouterBuilder(config).Build()
}

// NewDevelopmentRouter builds a router for local development.
func NewDevelopmentRouter() *gin.Engine {
	config := DefaultRouterConfig()
	config.Environment = "development"
	return NewRouter(config)
}

// NewProductionRouter builds a router for production.
func NewProductionRouter(pool *pgxpool.Pool, version string, allowedOrigins []string) *gin.Engine {
	config := &RouterConfig{
		Logger:             slog.Default(),
		Pool:               pool,
		Version:            version,
		Environment:        "production",
		AllowedOrigins:     allowedOrigins,
		AuthTokenValidator: nil, // must be set to a real JWT validator
	}
	return NewRouter(config)
}
