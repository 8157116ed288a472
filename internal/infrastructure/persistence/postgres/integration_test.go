//go:build integration

// Package postgres - integration tests run against a real, already-running
// PostgreSQL instance (as opposed to repositories_testcontainers_test.go,
// which spins up its own container).
//
// Run:
//
//	go test -tags=integration ./internal/infrastructure/persistence/postgres/...
//
// Requires:
//   - A running PostgreSQL with migrations applied
//
// Environment variables:
//   - TEST_DB_HOST (default: localhost)
//   - TEST_DB_PORT (default: 5432)
//   - TEST_DB_NAME (default: ledgervault_test)
//   - TEST_DB_USER (default: postgres)
//   - TEST_DB_PASSWORD (default: postgres)
package postgres

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	domainErrors "github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// testPool is the shared connection pool for all tests in this file.
var testPool *pgxpool.Pool

// TestMain wires up the test database connection pool.
func TestMain(m *testing.M) {
	ctx := context.Background()

	cfg := getTestConfig()

	pool, err := NewConnectionPool(ctx, cfg)
	if err != nil {
		panic("Failed to connect to test database: " + err.Error())
	}
	testPool = pool

	code := m.Run()

	pool.Close()
	os.Exit(code)
}

func getTestConfig() Config {
	cfg := DefaultConfig()

	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("TEST_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if name := os.Getenv("TEST_DB_NAME"); name != "" {
		cfg.Database = name
	} else {
		cfg.Database = "ledgervault_test"
	}
	if user := os.Getenv("TEST_DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("TEST_DB_PASSWORD"); password != "" {
		cfg.Password = password
	}

	return cfg
}

// cleanupAll truncates every table between tests, in FK-safe order.
func cleanupAll(t *testing.T, ctx context.Context) {
	tables := []string{"outbox", "ledger_entries", "transactions", "wallets", "asset_types", "users"}
	for _, table := range tables {
		if _, err := testPool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
}

// ============================================
// UserRepository Integration Tests
// ============================================

func TestUserRepository_Save_Success(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	repo := NewUserRepository(testPool)

	user, err := entities.NewUser("integration@test.com", "Integration Test", entities.RoleUser)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	loaded, err := repo.FindByID(ctx, user.ID())
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}

	if loaded.Email() != user.Email() {
		t.Errorf("Expected email %s, got %s", user.Email(), loaded.Email())
	}
	if loaded.FullName() != user.FullName() {
		t.Errorf("Expected name %s, got %s", user.FullName(), loaded.FullName())
	}
}

func TestUserRepository_Save_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	repo := NewUserRepository(testPool)

	user1, _ := entities.NewUser("duplicate@test.com", "User 1", entities.RoleUser)
	if err := repo.Save(ctx, user1); err != nil {
		t.Fatalf("Failed to save first user: %v", err)
	}

	user2, _ := entities.NewUser("duplicate@test.com", "User 2", entities.RoleUser)
	err := repo.Save(ctx, user2)

	if err == nil {
		t.Fatal("Expected error for duplicate email")
	}
	if !domainErrors.IsBusinessRuleViolation(err) {
		t.Errorf("Expected BusinessRuleViolation, got %T: %v", err, err)
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	repo := NewUserRepository(testPool)

	user, _ := entities.NewUser("findbyemail@test.com", "Find By Email", entities.RoleUser)
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "findbyemail@test.com")
	if err != nil {
		t.Fatalf("Failed to find user: %v", err)
	}
	if found.ID() != user.ID() {
		t.Errorf("Expected ID %s, got %s", user.ID(), found.ID())
	}
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	_, err := repo.FindByID(ctx, uuid.New())
	if err == nil {
		t.Fatal("Expected error for non-existent user")
	}
	if !domainErrors.IsNotFound(err) {
		t.Errorf("Expected ErrEntityNotFound, got %v", err)
	}
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	repo := NewUserRepository(testPool)

	exists, err := repo.ExistsByEmail(ctx, "exists@test.com")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if exists {
		t.Error("Expected false for non-existent email")
	}

	user, _ := entities.NewUser("exists@test.com", "Exists Test", entities.RoleUser)
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	exists, err = repo.ExistsByEmail(ctx, "exists@test.com")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if !exists {
		t.Error("Expected true for existing email")
	}
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	repo := NewUserRepository(testPool)

	for i := 0; i < 5; i++ {
		user, _ := entities.NewUser(
			"list"+strconv.Itoa(i)+"@test.com",
			"User "+strconv.Itoa(i),
			entities.RoleUser,
		)
		if err := repo.Save(ctx, user); err != nil {
			t.Fatalf("Failed to save user %d: %v", i, err)
		}
	}

	users, err := repo.List(ctx, 0, 3)
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("Expected 3 users, got %d", len(users))
	}

	users, err = repo.List(ctx, 3, 3)
	if err != nil {
		t.Fatalf("Failed to list users page 2: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users on page 2, got %d", len(users))
	}
}

// ============================================
// UnitOfWork Integration Tests
// ============================================

func TestUnitOfWork_Execute_Commit(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	uow := NewUnitOfWork(testPool)
	userRepo := NewUserRepository(testPool)

	var savedUserID uuid.UUID

	err := uow.Execute(ctx, func(txCtx context.Context) error {
		user, err := entities.NewUser("uow@test.com", "UoW Test", entities.RoleUser)
		if err != nil {
			return err
		}
		savedUserID = user.ID()
		return userRepo.Save(txCtx, user)
	})
	if err != nil {
		t.Fatalf("UoW execution failed: %v", err)
	}

	if _, err = userRepo.FindByID(ctx, savedUserID); err != nil {
		t.Errorf("User should exist after commit: %v", err)
	}
}

func TestUnitOfWork_Execute_Rollback(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	uow := NewUnitOfWork(testPool)
	userRepo := NewUserRepository(testPool)

	var savedUserID uuid.UUID

	err := uow.Execute(ctx, func(txCtx context.Context) error {
		user, err := entities.NewUser("rollback@test.com", "Rollback Test", entities.RoleUser)
		if err != nil {
			return err
		}
		savedUserID = user.ID()

		if err := userRepo.Save(txCtx, user); err != nil {
			return err
		}
		return domainErrors.NewBusinessRuleViolation("TEST_ERROR", "intentional error", nil)
	})
	if err == nil {
		t.Fatal("Expected error from UoW")
	}

	if _, err = userRepo.FindByID(ctx, savedUserID); err == nil {
		t.Error("User should NOT exist after rollback")
	}
}

func TestUnitOfWork_ExecuteWithRetry_SucceedsOnFirstAttempt(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	uow := NewUnitOfWork(testPool)
	userRepo := NewUserRepository(testPool)

	attempts := 0
	err := uow.ExecuteWithRetry(ctx, 3, func(txCtx context.Context) error {
		attempts++
		user, err := entities.NewUser("retry@test.com", "Retry Test", entities.RoleUser)
		if err != nil {
			return err
		}
		return userRepo.Save(txCtx, user)
	})
	if err != nil {
		t.Fatalf("ExecuteWithRetry failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected exactly one attempt, got %d", attempts)
	}
}

// ============================================
// WalletRepository Integration Tests
// ============================================

func mustAssetType(t *testing.T, ctx context.Context, code, name string) valueobjects.Currency {
	t.Helper()
	repo := NewAssetTypeRepository(testPool)
	at, err := entities.NewAssetType(code, name)
	if err != nil {
		t.Fatalf("Failed to create asset type: %v", err)
	}
	if err := repo.Save(ctx, at); err != nil {
		t.Fatalf("Failed to save asset type: %v", err)
	}
	return at.Code()
}

func TestWalletRepository_Save_Success(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	userRepo := NewUserRepository(testPool)
	walletRepo := NewWalletRepository(testPool)
	assetType := mustAssetType(t, ctx, "GOLD_COINS", "Gold Coins")

	user, _ := entities.NewUser("wallet@test.com", "Wallet Test", entities.RoleUser)
	if err := userRepo.Save(ctx, user); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	wallet, err := entities.NewWallet(user.ID(), assetType, entities.RoleUser)
	if err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}
	if err := walletRepo.Save(ctx, wallet); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}

	loaded, err := walletRepo.FindByID(ctx, wallet.ID())
	if err != nil {
		t.Fatalf("Failed to load wallet: %v", err)
	}
	if loaded.UserID() != user.ID() {
		t.Errorf("Expected user ID %s, got %s", user.ID(), loaded.UserID())
	}
	if !loaded.AssetType().Equals(assetType) {
		t.Errorf("Expected asset type %s, got %s", assetType.Code(), loaded.AssetType().Code())
	}
}

// TestWalletRepository_ConcurrentCredits_SerializeUnderLock exercises the
// real concurrency model for this repository layer: there is no optimistic
// version column, so two movements over the same wallet pair serialize via
// WalletLocker.LockPair's row-level locking instead, and both apply in full.
func TestWalletRepository_ConcurrentCredits_SerializeUnderLock(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	userRepo := NewUserRepository(testPool)
	walletRepo := NewWalletRepository(testPool)
	locker := NewWalletLocker(testPool)
	uow := NewUnitOfWork(testPool)
	assetType := mustAssetType(t, ctx, "GOLD_COINS", "Gold Coins")

	treasuryUser, _ := entities.NewUser("treasury@ledgervault.internal", "Treasury", entities.RoleSystem)
	userRepo.Save(ctx, treasuryUser)
	treasury, _ := entities.NewWallet(treasuryUser.ID(), assetType, entities.RoleSystem)
	walletRepo.Save(ctx, treasury)

	user, _ := entities.NewUser("locking@test.com", "Locking Test", entities.RoleUser)
	userRepo.Save(ctx, user)
	wallet, _ := entities.NewWallet(user.ID(), assetType, entities.RoleUser)
	walletRepo.Save(ctx, wallet)

	amount, _ := valueobjects.NewMoney("100", assetType)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- uow.Execute(ctx, func(txCtx context.Context) error {
				src, dst, err := locker.LockPair(txCtx, treasury.ID(), wallet.ID())
				if err != nil {
					return err
				}
				if err := src.Debit(amount); err != nil {
					return err
				}
				if err := dst.Credit(amount); err != nil {
					return err
				}
				if err := walletRepo.Save(txCtx, src); err != nil {
					return err
				}
				return walletRepo.Save(txCtx, dst)
			})
		}()
	}

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent movement failed: %v", err)
		}
	}

	loaded, err := walletRepo.FindByID(ctx, wallet.ID())
	if err != nil {
		t.Fatalf("Failed to load wallet: %v", err)
	}
	expected, _ := valueobjects.NewMoney("200", assetType)
	if !loaded.Balance().Equals(expected) {
		t.Errorf("Expected balance %s after two serialized credits, got %s", expected.String(), loaded.Balance().String())
	}
}

func TestWalletRepository_FindByUserAndAssetType(t *testing.T) {
	ctx := context.Background()
	cleanupAll(t, ctx)

	userRepo := NewUserRepository(testPool)
	walletRepo := NewWalletRepository(testPool)
	assetType := mustAssetType(t, ctx, "GEM_SHARDS", "Gem Shards")

	user, _ := entities.NewUser("findwallet@test.com", "Find Wallet", entities.RoleUser)
	userRepo.Save(ctx, user)

	wallet, _ := entities.NewWallet(user.ID(), assetType, entities.RoleUser)
	walletRepo.Save(ctx, wallet)

	found, err := walletRepo.FindByUserAndAssetType(ctx, user.ID(), assetType)
	if err != nil {
		t.Fatalf("Failed to find wallet: %v", err)
	}
	if found.ID() != wallet.ID() {
		t.Errorf("Expected wallet ID %s, got %s", wallet.ID(), found.ID())
	}
}

// ============================================
// Benchmark Tests
// ============================================

func BenchmarkUserRepository_Save(b *testing.B) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		user, _ := entities.NewUser(
			"bench"+strconv.Itoa(i)+time.Now().Format("150405.000000000")+"@test.com",
			"Benchmark User",
			entities.RoleUser,
		)
		repo.Save(ctx, user)
	}
}

func BenchmarkUserRepository_FindByID(b *testing.B) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	user, _ := entities.NewUser("benchfind@test.com", "Benchmark Find", entities.RoleUser)
	repo.Save(ctx, user)
	userID := user.ID()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		repo.FindByID(ctx, userID)
	}
}
