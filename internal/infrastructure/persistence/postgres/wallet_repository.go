package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	domainErrors "github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

var _ ports.WalletRepository = (*WalletRepository)(nil)

// WalletRepository implements ports.WalletRepository against PostgreSQL.
//
// Balance is a single NUMERIC(18,4) column. There is no optimistic version
// column here: safe concurrent balance mutation is the Wallet Locker's job
// (wallet_locker.go), not this repository's — Save is a plain row write
// that assumes the caller already holds the row lock when it updates a
// balance.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const walletColumns = `id, user_id, asset_type, owner_role, balance, created_at, updated_at`

// Save upserts a wallet by ID.
func (r *WalletRepository) Save(ctx context.Context, wallet *entities.Wallet) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO wallets (id, user_id, asset_type, owner_role, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			balance = EXCLUDED.balance,
			updated_at = EXCLUDED.updated_at
	`

	_, err := q.Exec(ctx, query,
		wallet.ID(),
		wallet.UserID(),
		wallet.AssetType().Code(),
		string(wallet.OwnerRole()),
		wallet.Balance().Decimal(),
		wallet.CreatedAt(),
		wallet.UpdatedAt(),
	)

	if err != nil {
		if isUniqueViolation(err, "wallets_user_asset_type_unique") {
			return domainErrors.NewBusinessRuleViolation(
				"WALLET_ALREADY_EXISTS",
				fmt.Sprintf("wallet for asset type %s already exists for this user", wallet.AssetType().Code()),
				map[string]interface{}{"asset_type": wallet.AssetType().Code()},
			)
		}
		if isForeignKeyViolation(err) {
			return domainErrors.NewDomainError("USER_NOT_FOUND", "owning user does not exist", err)
		}
		return fmt.Errorf("save wallet: %w", err)
	}

	return nil
}

func scanWallet(scanner interface{ Scan(dest ...any) error }) (*entities.Wallet, error) {
	var (
		walletID, userID     uuid.UUID
		assetTypeCode        string
		ownerRole            string
		balance              decimal.Decimal
		createdAt, updatedAt time.Time
	)

	err := scanner.Scan(&walletID, &userID, &assetTypeCode, &ownerRole, &balance, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	assetType, err := valueobjects.NewCurrency(assetTypeCode)
	if err != nil {
		return nil, fmt.Errorf("reconstruct asset type: %w", err)
	}

	money, err := valueobjects.NewMoneyFromDecimal(balance, assetType)
	if err != nil {
		return nil, fmt.Errorf("reconstruct balance: %w", err)
	}

	wallet := entities.ReconstructWallet(walletID, userID, assetType, entities.Role(ownerRole), money, createdAt, updatedAt)
	return wallet, nil
}

// FindByID loads a wallet by ID.
func (r *WalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	wallet, err := scanWallet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find wallet by id: %w", err)
	}

	return wallet, nil
}

// FindByUserAndAssetType loads the one wallet a user holds for an asset type.
func (r *WalletRepository) FindByUserAndAssetType(ctx context.Context, userID uuid.UUID, assetType valueobjects.Currency) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND asset_type = $2`

	wallet, err := scanWallet(q.QueryRow(ctx, query, userID, assetType.Code()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find wallet by user and asset type: %w", err)
	}

	return wallet, nil
}

// FindTreasuryWallet loads the SYSTEM-owned wallet for an asset type — the
// counterparty for every TOP_UP, BONUS, and PURCHASE movement.
func (r *WalletRepository) FindTreasuryWallet(ctx context.Context, assetType valueobjects.Currency) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE asset_type = $1 AND owner_role = $2`

	wallet, err := scanWallet(q.QueryRow(ctx, query, assetType.Code(), string(entities.RoleSystem)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find treasury wallet: %w", err)
	}

	return wallet, nil
}

// FindByUserID loads every wallet a user holds, across all asset types.
func (r *WalletRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY asset_type`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("find wallets by user id: %w", err)
	}
	defer rows.Close()

	return collectWallets(rows)
}

// ExistsByUserAndAssetType checks wallet existence without loading the row.
func (r *WalletRepository) ExistsByUserAndAssetType(ctx context.Context, userID uuid.UUID, assetType valueobjects.Currency) (bool, error) {
	q := r.getQuerier(ctx)

	query := `SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1 AND asset_type = $2)`

	var exists bool
	err := q.QueryRow(ctx, query, userID, assetType.Code()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wallet existence: %w", err)
	}

	return exists, nil
}

// List returns a filtered, paginated wallet list.
func (r *WalletRepository) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argPos)
		args = append(args, *filter.UserID)
		argPos++
	}
	if filter.AssetType != nil {
		query += fmt.Sprintf(" AND asset_type = $%d", argPos)
		args = append(args, filter.AssetType.Code())
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argPos, argPos+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	return collectWallets(rows)
}

func collectWallets(rows pgx.Rows) ([]*entities.Wallet, error) {
	var wallets []*entities.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}
