// Package main - Bootstrap/seed command for the ledger vault.
//
// Provisions the reference data a fresh environment needs before it can
// accept TOP_UP/BONUS/PURCHASE traffic: the asset types, the treasury
// (SYSTEM) user, and one treasury wallet per asset type. Optionally also
// seeds a handful of demo users with starting balances, for local
// development and demos.
//
// Re-runnable: every step first checks whether the entity already exists
// and leaves it alone if so, and every demo top-up carries a deterministic
// idempotency key, so running this command twice against the same
// database is a no-op the second time.
//
// Usage:
//
//	go run cmd/seed/main.go
//	go run cmd/seed/main.go -assets "GOLD_COINS=Gold Coins,GEMS=Premium Gems"
//	go run cmd/seed/main.go -demo-users "alice@example.com=Alice=GOLD_COINS=1000"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/ledger"
	"github.com/vinayak20130/ledgervault/internal/config"
	"github.com/vinayak20130/ledgervault/internal/container"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// treasuryEmail is the fixed address of the SYSTEM user every treasury
// wallet is owned by. There is at most one such user (spec §3).
const treasuryEmail = "treasury@ledgervault.internal"

// assetSpec is one "CODE=Name" entry from -assets.
type assetSpec struct {
	code string
	name string
}

// demoUserSpec is one "email=fullname=CODE=amount" entry from -demo-users.
type demoUserSpec struct {
	email    string
	fullName string
	asset    string
	amount   string
}

func main() {
	configPath := flag.String("config", "./configs", "Path to config directory")
	configName := flag.String("config-name", "config", "Config file name (without extension)")
	envOnly := flag.Bool("env-only", false, "Load config only from environment variables")
	assetsFlag := flag.String("assets", "GOLD_COINS=Gold Coins,GEMS=Premium Gems",
		"Comma-separated CODE=Name pairs of asset types to provision")
	demoUsersFlag := flag.String("demo-users", "",
		"Comma-separated email=fullname=CODE=amount entries to seed with a starting TOP_UP balance")
	flag.Parse()

	assetSpecs, err := parseAssetSpecs(*assetsFlag)
	if err != nil {
		log.Fatalf("invalid -assets: %v", err)
	}

	demoSpecs, err := parseDemoUserSpecs(*demoUsersFlag)
	if err != nil {
		log.Fatalf("invalid -demo-users: %v", err)
	}

	var cfg *config.Config
	if *envOnly {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath, *configName)
	}
	if err != nil {
		log.Printf("warning: failed to load config: %v, using development defaults", err)
		cfg = config.Development()
	}

	c := container.New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.InitializeForTooling(ctx); err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = c.Shutdown(shutdownCtx)
	}()

	logger := c.Logger()

	treasuryUserID, err := ensureTreasuryUser(ctx, c)
	if err != nil {
		log.Fatalf("failed to provision treasury user: %v", err)
	}

	for _, spec := range assetSpecs {
		if err := ensureAssetType(ctx, c, spec); err != nil {
			log.Fatalf("failed to provision asset type %s: %v", spec.code, err)
		}
		if err := ensureTreasuryWallet(ctx, c, treasuryUserID, spec.code); err != nil {
			log.Fatalf("failed to provision treasury wallet for %s: %v", spec.code, err)
		}
		logger.Info("treasury ready", slog.String("asset_type", spec.code))
	}

	for _, spec := range demoSpecs {
		if err := seedDemoUser(ctx, c, spec); err != nil {
			log.Fatalf("failed to seed demo user %s: %v", spec.email, err)
		}
		logger.Info("demo user funded",
			slog.String("email", spec.email),
			slog.String("asset_type", spec.asset),
			slog.String("amount", spec.amount),
		)
	}

	fmt.Println("Seed complete.")
}

// ensureTreasuryUser finds or creates the one SYSTEM user every treasury
// wallet belongs to.
func ensureTreasuryUser(ctx context.Context, c *container.Container) (string, error) {
	repo := c.UserRepository()

	existing, err := repo.FindByEmail(ctx, treasuryEmail)
	if err == nil {
		return existing.ID().String(), nil
	}
	if !errors.IsNotFound(err) {
		return "", fmt.Errorf("look up treasury user: %w", err)
	}

	user, err := entities.NewUser(treasuryEmail, "Treasury", entities.RoleSystem)
	if err != nil {
		return "", fmt.Errorf("construct treasury user: %w", err)
	}
	if err := repo.Save(ctx, user); err != nil {
		return "", fmt.Errorf("save treasury user: %w", err)
	}
	return user.ID().String(), nil
}

// ensureAssetType finds or creates one asset type.
func ensureAssetType(ctx context.Context, c *container.Container, spec assetSpec) error {
	repo := c.AssetTypeRepository()

	currency, err := valueobjects.NewCurrency(spec.code)
	if err != nil {
		return fmt.Errorf("asset code %q: %w", spec.code, err)
	}

	_, err = repo.FindByCode(ctx, currency)
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return fmt.Errorf("look up asset type %s: %w", spec.code, err)
	}

	assetType, err := entities.NewAssetType(spec.code, spec.name)
	if err != nil {
		return fmt.Errorf("construct asset type %s: %w", spec.code, err)
	}
	return repo.Save(ctx, assetType)
}

// ensureTreasuryWallet finds or creates the SYSTEM wallet for one asset
// type. The wallet starts at a zero balance: a SYSTEM-owned wallet is
// exempt from the overdraft check (entities.Wallet.Debit), so it mints
// supply as TOP_UP/BONUS movements debit it into negative territory rather
// than needing to be pre-funded by a separate genesis transaction. Modeling
// a genesis mint as an actual double-entry transaction would need either a
// second SYSTEM-owned wallet per asset type (which breaks
// WalletRepository.FindTreasuryWallet's one-row assumption) or relaxing the
// `source_wallet_id <> destination_wallet_id` schema constraint — both
// bigger changes than the unlimited-overdraft design already supports.
func ensureTreasuryWallet(ctx context.Context, c *container.Container, treasuryUserIDStr, assetCode string) error {
	repo := c.WalletRepository()

	currency, err := valueobjects.NewCurrency(assetCode)
	if err != nil {
		return fmt.Errorf("asset code %q: %w", assetCode, err)
	}

	_, err = repo.FindTreasuryWallet(ctx, currency)
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return fmt.Errorf("look up treasury wallet for %s: %w", assetCode, err)
	}

	treasuryUserID, err := uuid.Parse(treasuryUserIDStr)
	if err != nil {
		return fmt.Errorf("invalid treasury user id: %w", err)
	}

	wallet, err := entities.NewWallet(treasuryUserID, currency, entities.RoleSystem)
	if err != nil {
		return fmt.Errorf("construct treasury wallet for %s: %w", assetCode, err)
	}
	return repo.Save(ctx, wallet)
}

// seedDemoUser ensures a demo user and their wallet exist, then funds the
// wallet with a TOP_UP through the Transaction Executor — the same code
// path the HTTP API uses — under a deterministic idempotency key so
// re-running the seed never double-funds the wallet.
func seedDemoUser(ctx context.Context, c *container.Container, spec demoUserSpec) error {
	userRepo := c.UserRepository()
	walletRepo := c.WalletRepository()

	user, err := userRepo.FindByEmail(ctx, spec.email)
	if err != nil {
		if !errors.IsNotFound(err) {
			return fmt.Errorf("look up demo user %s: %w", spec.email, err)
		}
		user, err = entities.NewUser(spec.email, spec.fullName, entities.RoleUser)
		if err != nil {
			return fmt.Errorf("construct demo user %s: %w", spec.email, err)
		}
		if err := userRepo.Save(ctx, user); err != nil {
			return fmt.Errorf("save demo user %s: %w", spec.email, err)
		}
	}

	currency, err := valueobjects.NewCurrency(spec.asset)
	if err != nil {
		return fmt.Errorf("asset code %q: %w", spec.asset, err)
	}

	wallet, err := walletRepo.FindByUserAndAssetType(ctx, user.ID(), currency)
	if err != nil {
		if !errors.IsNotFound(err) {
			return fmt.Errorf("look up wallet for %s/%s: %w", spec.email, spec.asset, err)
		}
		wallet, err = entities.NewWallet(user.ID(), currency, entities.RoleUser)
		if err != nil {
			return fmt.Errorf("construct wallet for %s/%s: %w", spec.email, spec.asset, err)
		}
		if err := walletRepo.Save(ctx, wallet); err != nil {
			return fmt.Errorf("save wallet for %s/%s: %w", spec.email, spec.asset, err)
		}
	}

	treasuryWallet, err := walletRepo.FindTreasuryWallet(ctx, currency)
	if err != nil {
		return fmt.Errorf("no treasury wallet provisioned for %s, run asset provisioning first: %w", spec.asset, err)
	}

	amount, err := valueobjects.NewMoney(spec.amount, currency)
	if err != nil {
		return fmt.Errorf("amount %q: %w", spec.amount, err)
	}

	idempotencyKey := fmt.Sprintf("seed-%s-%s", sanitizeKeyPart(spec.email), spec.asset)

	_, err = c.Executor().Execute(ctx, ledger.MoveCommand{
		IdempotencyKey:      idempotencyKey,
		Type:                entities.TransactionTypeTopUp,
		SourceWalletID:      treasuryWallet.ID(),
		DestinationWalletID: wallet.ID(),
		Amount:              amount,
		ReferenceID:         "seed",
		Metadata:            map[string]interface{}{"reason": "seed_demo_user"},
	})
	if err != nil {
		return fmt.Errorf("fund demo wallet for %s/%s: %w", spec.email, spec.asset, err)
	}
	return nil
}

func parseAssetSpecs(raw string) ([]assetSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var specs []assetSpec
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("entry %q must be CODE=Name", entry)
		}
		specs = append(specs, assetSpec{
			code: strings.TrimSpace(parts[0]),
			name: strings.TrimSpace(parts[1]),
		})
	}
	return specs, nil
}

func parseDemoUserSpecs(raw string) ([]demoUserSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var specs []demoUserSpec
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(entry, "=", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("entry %q must be email=fullname=CODE=amount", entry)
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err != nil {
			return nil, fmt.Errorf("entry %q: invalid amount: %w", entry, err)
		}
		specs = append(specs, demoUserSpec{
			email:    strings.TrimSpace(parts[0]),
			fullName: strings.TrimSpace(parts[1]),
			asset:    strings.TrimSpace(parts[2]),
			amount:   strings.TrimSpace(parts[3]),
		})
	}
	return specs, nil
}

func sanitizeKeyPart(s string) string {
	return strings.NewReplacer("@", "-at-", ".", "-").Replace(s)
}
