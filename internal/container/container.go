// Package container - Dependency Injection container for the application.
//
// Container manages the lifecycle of every dependency:
// - Construction (eager, in Initialize)
// - Access (getters)
// - Teardown (cleanup)
//
// Pattern: Composition Root
// - every dependency is assembled in one place
// - easy to test
// - easy to swap implementations
package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vinayak20130/ledgervault/internal/adapters/http"
	"github.com/vinayak20130/ledgervault/internal/adapters/http/middleware"
	"github.com/vinayak20130/ledgervault/internal/application/ledger"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/application/usecases/transaction"
	"github.com/vinayak20130/ledgervault/internal/application/usecases/user"
	"github.com/vinayak20130/ledgervault/internal/application/usecases/wallet"
	"github.com/vinayak20130/ledgervault/internal/config"
	"github.com/vinayak20130/ledgervault/internal/infrastructure/persistence/postgres"
	applog "github.com/vinayak20130/ledgervault/internal/pkg/logger"
)

// ============================================
// Container
// ============================================

// Container is the application's DI container.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	pool *pgxpool.Pool

	// Repositories
	userRepo        ports.UserRepository
	walletRepo      ports.WalletRepository
	transactionRepo ports.TransactionRepository
	ledgerEntryRepo ports.LedgerEntryRepository
	assetTypeRepo   ports.AssetTypeRepository
	outboxRepo      *postgres.OutboxRepository
	walletLocker    ports.WalletLocker

	// Unit of Work
	uow ports.UnitOfWork

	// Event Publisher
	eventPublisher ports.EventPublisher

	// Transaction Executor (spec §4.2)
	executor *ledger.Executor

	// Use Cases
	createUserUC             *user.CreateUserUseCase
	getUserUC                *user.GetUserUseCase
	listUsersUC               *user.ListUsersUseCase
	createWalletUC           *wallet.CreateWalletUseCase
	getWalletUC              *wallet.GetWalletUseCase
	listWalletsUC            *wallet.ListWalletsUseCase
	topUpUC                  *transaction.TopUpUseCase
	bonusUC                  *transaction.BonusUseCase
	purchaseUC               *transaction.PurchaseUseCase
	getTransactionUC         *transaction.GetTransactionUseCase
	listTransactionsUC       *transaction.ListTransactionsUseCase
	getByIdempotencyKeyUC    *transaction.GetTransactionByIdempotencyKeyUseCase

	// HTTP
	httpServer *http.Server
}

// New creates a new container for the given configuration.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize wires every dependency.
func (c *Container) Initialize(ctx context.Context) error {
	c.logger = c.initLogger()
	c.logger.Info("Initializing application container...")

	// 1. Database
	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database connected")

	// 2. Repositories
	c.initRepositories()
	c.logger.Info("Repositories initialized")

	// 3. Transaction Executor
	c.initExecutor()
	c.logger.Info("Transaction executor initialized")

	// 4. Use Cases
	c.initUseCases()
	c.logger.Info("Use cases initialized")

	// 5. HTTP Server
	c.initHTTPServer()
	c.logger.Info("HTTP server initialized")

	c.logger.Info("Container initialization complete")
	return nil
}

// InitializeForTooling wires the database, repositories, and executor but
// skips the use cases and HTTP server — for standalone commands (cmd/seed,
// cmd/outbox-relay) that only ever need storage access.
func (c *Container) InitializeForTooling(ctx context.Context) error {
	c.logger = c.initLogger()

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	c.initRepositories()
	c.initExecutor()

	return nil
}

// initLogger builds the structured logger. Delegates to pkg/logger so every
// log line — not just the HTTP access log — picks up the request ID riding
// on the request's context (see middleware.RequestID).
func (c *Container) initLogger() *slog.Logger {
	logger := applog.New(&applog.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Output:    os.Stdout,
		AddSource: c.config.App.Debug,
	})
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the connection pool.
func (c *Container) initDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(c.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = c.config.Database.MaxConnections
	poolConfig.MinConns = c.config.Database.MinConnections
	poolConfig.MaxConnLifetime = c.config.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.config.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.pool = pool
	return nil
}

// initRepositories builds the storage adapters.
func (c *Container) initRepositories() {
	c.userRepo = postgres.NewUserRepository(c.pool)
	c.walletRepo = postgres.NewWalletRepository(c.pool)
	c.transactionRepo = postgres.NewTransactionRepository(c.pool)
	c.ledgerEntryRepo = postgres.NewLedgerEntryRepository(c.pool)
	c.assetTypeRepo = postgres.NewAssetTypeRepository(c.pool)
	c.walletLocker = postgres.NewWalletLocker(c.pool)
	c.outboxRepo = postgres.NewOutboxRepository(c.pool)

	c.uow = postgres.NewUnitOfWork(c.pool)

	// OutboxRepository doubles as the in-process EventPublisher: publishing
	// just means writing the event row in the same database transaction as
	// the business operation. A separate poller (cmd/outbox-relay) is the
	// only thing that ever talks to NATS.
	c.eventPublisher = c.outboxRepo
}

// initExecutor builds the Transaction Executor — the single code path every
// value movement (TOP_UP, BONUS, PURCHASE) goes through.
func (c *Container) initExecutor() {
	c.executor = ledger.NewExecutor(
		c.walletRepo,
		c.transactionRepo,
		c.ledgerEntryRepo,
		c.walletLocker,
		c.eventPublisher,
		c.uow,
	)
}

// initUseCases builds the application's use cases.
func (c *Container) initUseCases() {
	// User
	c.createUserUC = user.NewCreateUserUseCase(c.userRepo, c.eventPublisher, c.uow)
	c.getUserUC = user.NewGetUserUseCase(c.userRepo)
	c.listUsersUC = user.NewListUsersUseCase(c.userRepo)

	// Wallet
	c.createWalletUC = wallet.NewCreateWalletUseCase(c.userRepo, c.walletRepo, c.eventPublisher, c.uow)
	c.getWalletUC = wallet.NewGetWalletUseCase(c.walletRepo)
	c.listWalletsUC = wallet.NewListWalletsUseCase(c.walletRepo)

	// Transaction (value movements all share the Executor)
	c.topUpUC = transaction.NewTopUpUseCase(c.walletRepo, c.executor)
	c.bonusUC = transaction.NewBonusUseCase(c.walletRepo, c.executor)
	c.purchaseUC = transaction.NewPurchaseUseCase(c.walletRepo, c.executor)
	c.getTransactionUC = transaction.NewGetTransactionUseCase(c.transactionRepo)
	c.listTransactionsUC = transaction.NewListTransactionsUseCase(c.transactionRepo)
	c.getByIdempotencyKeyUC = transaction.NewGetTransactionByIdempotencyKeyUseCase(c.transactionRepo)
}

// initHTTPServer assembles the router and the HTTP server wrapping it.
func (c *Container) initHTTPServer() {
	var tokenValidator func(token string) (*middleware.AuthClaims, error)
	if c.config.Auth.EnableMockAuth {
		tokenValidator = middleware.MockTokenValidator
	}
	// In production this must be set to a real JWT validator.

	routerConfig := &http.RouterConfig{
		Logger:             c.logger,
		Pool:               c.pool,
		Version:            c.config.App.Version,
		BuildTime:          c.config.App.BuildTime,
		Environment:        c.config.App.Environment,
		AllowedOrigins:     c.config.CORS.AllowedOrigins,
		AuthTokenValidator: tokenValidator,
	}

	router := http.NewRouterBuilder(routerConfig).
		WithUserUseCases(&http.UserUseCases{
			CreateUser: c.createUserUC,
			GetUser:    c.getUserUC,
			ListUsers:  c.listUsersUC,
		}).
		WithWalletUseCases(&http.WalletUseCases{
			CreateWallet: c.createWalletUC,
			GetWallet:    c.getWalletUC,
			ListWallets:  c.listWalletsUC,
		}).
		WithTransactionUseCases(&http.TransactionUseCases{
			TopUp:               c.topUpUC,
			Bonus:               c.bonusUC,
			Purchase:            c.purchaseUC,
			GetTransaction:      c.getTransactionUC,
			ListTransactions:    c.listTransactionsUC,
			GetByIdempotencyKey: c.getByIdempotencyKeyUC,
		}).
		Build()

	serverConfig := &http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)
}

// ============================================
// Getters
// ============================================

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the structured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Pool returns the database connection pool.
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// HTTPServer returns the HTTP server.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// ============================================
// Repository Getters
// ============================================

// UserRepository returns the user repository.
func (c *Container) UserRepository() ports.UserRepository {
	return c.userRepo
}

// WalletRepository returns the wallet repository.
func (c *Container) WalletRepository() ports.WalletRepository {
	return c.walletRepo
}

// TransactionRepository returns the transaction repository.
func (c *Container) TransactionRepository() ports.TransactionRepository {
	return c.transactionRepo
}

// LedgerEntryRepository returns the ledger entry repository.
func (c *Container) LedgerEntryRepository() ports.LedgerEntryRepository {
	return c.ledgerEntryRepo
}

// AssetTypeRepository returns the asset type repository.
func (c *Container) AssetTypeRepository() ports.AssetTypeRepository {
	return c.assetTypeRepo
}

// WalletLocker returns the Wallet Locker.
func (c *Container) WalletLocker() ports.WalletLocker {
	return c.walletLocker
}

// OutboxRepository returns the transactional outbox store — consumed by
// cmd/outbox-relay, nothing else.
func (c *Container) OutboxRepository() *postgres.OutboxRepository {
	return c.outboxRepo
}

// UnitOfWork returns the Unit of Work.
func (c *Container) UnitOfWork() ports.UnitOfWork {
	return c.uow
}

// Executor returns the Transaction Executor.
func (c *Container) Executor() *ledger.Executor {
	return c.executor
}

// ============================================
// Use Case Getters
// ============================================

// CreateUserUseCase returns the user onboarding use case.
func (c *Container) CreateUserUseCase() *user.CreateUserUseCase {
	return c.createUserUC
}

// GetUserUseCase returns the user lookup use case.
func (c *Container) GetUserUseCase() *user.GetUserUseCase {
	return c.getUserUC
}

// ListUsersUseCase returns the user listing use case.
func (c *Container) ListUsersUseCase() *user.ListUsersUseCase {
	return c.listUsersUC
}

// CreateWalletUseCase returns the wallet provisioning use case.
func (c *Container) CreateWalletUseCase() *wallet.CreateWalletUseCase {
	return c.createWalletUC
}

// GetWalletUseCase returns the wallet lookup use case.
func (c *Container) GetWalletUseCase() *wallet.GetWalletUseCase {
	return c.getWalletUC
}

// ListWalletsUseCase returns the wallet listing use case.
func (c *Container) ListWalletsUseCase() *wallet.ListWalletsUseCase {
	return c.listWalletsUC
}

// TopUpUseCase returns the TOP_UP movement use case.
func (c *Container) TopUpUseCase() *transaction.TopUpUseCase {
	return c.topUpUC
}

// BonusUseCase returns the BONUS movement use case.
func (c *Container) BonusUseCase() *transaction.BonusUseCase {
	return c.bonusUC
}

// PurchaseUseCase returns the PURCHASE movement use case.
func (c *Container) PurchaseUseCase() *transaction.PurchaseUseCase {
	return c.purchaseUC
}

// GetTransactionUseCase returns the transaction lookup use case.
func (c *Container) GetTransactionUseCase() *transaction.GetTransactionUseCase {
	return c.getTransactionUC
}

// ListTransactionsUseCase returns the transaction listing use case.
func (c *Container) ListTransactionsUseCase() *transaction.ListTransactionsUseCase {
	return c.listTransactionsUC
}

// GetByIdempotencyKeyUseCase returns the idempotency-key lookup use case.
func (c *Container) GetByIdempotencyKeyUseCase() *transaction.GetTransactionByIdempotencyKeyUseCase {
	return c.getByIdempotencyKeyUC
}

// ============================================
// Shutdown
// ============================================

// Shutdown gracefully tears down every component.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if c.pool != nil {
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			c.logger.Info("Database connection closed")
		case <-ctx.Done():
			c.logger.Warn("Database close timeout")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.logger.Info("Container shutdown complete")
	return nil
}

// ============================================
// Run
// ============================================

// Run starts the application and blocks until shutdown.
func (c *Container) Run() error {
	c.logger.Info("Starting ledger vault API server",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	return c.httpServer.Run()
}

// ============================================
// Builder Pattern (Alternative)
// ============================================

// ContainerBuilder builds a container with custom-supplied components,
// for tests that need to inject a fake pool or event publisher.
type ContainerBuilder struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	eventPublisher ports.EventPublisher
}

// NewBuilder creates a new builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg: cfg,
	}
}

// WithLogger sets a custom logger.
func (b *ContainerBuilder) WithLogger(logger *slog.Logger) *ContainerBuilder {
	b.logger = logger
	return b
}

// WithPool sets an already-open connection pool.
func (b *ContainerBuilder) WithPool(pool *pgxpool.Pool) *ContainerBuilder {
	b.pool = pool
	return b
}

// WithEventPublisher sets a custom event publisher.
func (b *ContainerBuilder) WithEventPublisher(ep ports.EventPublisher) *ContainerBuilder {
	b.eventPublisher = ep
	return b
}

// Build creates the container.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	c := New(b.cfg)

	if b.logger != nil {
		c.logger = b.logger
	} else {
		c.logger = c.initLogger()
	}

	if b.pool != nil {
		c.pool = b.pool
	} else {
		if err := c.initDatabase(ctx); err != nil {
			return nil, err
		}
	}

	c.initRepositories()

	if b.eventPublisher != nil {
		c.eventPublisher = b.eventPublisher
	}

	c.initExecutor()
	c.initUseCases()
	c.initHTTPServer()

	return c, nil
}

// ============================================
// Health Check
// ============================================

// HealthStatus reports the application's health.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  time.Duration     `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

// Health reports the application's current health.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:  "healthy",
		Version: c.config.App.Version,
		Checks:  make(map[string]string),
	}

	if err := c.pool.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = "error: " + err.Error()
	} else {
		status.Checks["database"] = "ok"
	}

	return status
}
