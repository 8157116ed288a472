package postgres

import (
	"context"
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

var _ ports.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

// LedgerEntryRepository implements ports.LedgerEntryRepository.
//
// There is deliberately no Update or Delete here, mirroring the entity:
// once written, a ledger entry is never touched again (spec §7
// LedgerImmutable). Insert is called twice per completed transaction — once
// for the DEBIT side, once for the CREDIT side — always inside the same
// database transaction as the wallet balance update it backs.
type LedgerEntryRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerEntryRepository creates a new LedgerEntryRepository.
func NewLedgerEntryRepository(pool *pgxpool.Pool) *LedgerEntryRepository {
	return &LedgerEntryRepository{pool: pool}
}

func (r *LedgerEntryRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const ledgerEntryColumns = `id, transaction_id, wallet_id, entry_type, asset_type, amount, balance_after, created_at`

// Insert writes a single ledger entry.
func (r *LedgerEntryRepository) Insert(ctx context.Context, entry *entities.LedgerEntry) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO ledger_entries (id, transaction_id, wallet_id, entry_type, asset_type, amount, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		entry.ID(),
		entry.TransactionID(),
		entry.WalletID(),
		string(entry.EntryType()),
		entry.Amount().Currency().Code(),
		entry.Amount().Decimal(),
		entry.BalanceAfter().Decimal(),
		entry.CreatedAt(),
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.NewDomainError("TRANSACTION_OR_WALLET_NOT_FOUND", "transaction or wallet not found", err)
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

func scanLedgerEntry(scanner interface{ Scan(dest ...any) error }) (*entities.LedgerEntry, error) {
	var (
		id, transactionID, walletID uuid.UUID
		entryTypeStr, assetTypeCode string
		amount, balanceAfter        decimal.Decimal
		createdAt                   time.Time
	)

	err := scanner.Scan(&id, &transactionID, &walletID, &entryTypeStr, &assetTypeCode, &amount, &balanceAfter, &createdAt)
	if err != nil {
		return nil, err
	}

	assetType, err := valueobjects.NewCurrency(assetTypeCode)
	if err != nil {
		return nil, fmt.Errorf("reconstruct asset type: %w", err)
	}

	amountMoney, err := valueobjects.NewMoneyFromDecimal(amount, assetType)
	if err != nil {
		return nil, fmt.Errorf("reconstruct amount: %w", err)
	}
	balanceAfterMoney, err := valueobjects.NewMoneyFromDecimal(balanceAfter, assetType)
	if err != nil {
		return nil, fmt.Errorf("reconstruct balance after: %w", err)
	}

	entry := entities.ReconstructLedgerEntry(id, transactionID, walletID, entities.EntryType(entryTypeStr), amountMoney, balanceAfterMoney, createdAt)
	return entry, nil
}

// FindByTransactionID returns both entries (DEBIT and CREDIT) a transaction
// produced, oldest first.
func (r *LedgerEntryRepository) FindByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE transaction_id = $1 ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("find ledger entries by transaction id: %w", err)
	}
	defer rows.Close()

	return collectLedgerEntries(rows)
}

// FindByWalletID returns a wallet's ledger entries, newest first.
func (r *LedgerEntryRepository) FindByWalletID(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := q.Query(ctx, query, walletID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("find ledger entries by wallet id: %w", err)
	}
	defer rows.Close()

	return collectLedgerEntries(rows)
}

// LatestForWallet returns the most recent ledger entry for a wallet — its
// balanceAfter is the wallet's authoritative running balance.
func (r *LedgerEntryRepository) LatestForWallet(ctx context.Context, walletID uuid.UUID) (*entities.LedgerEntry, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	entry, err := scanLedgerEntry(q.QueryRow(ctx, query, walletID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find latest ledger entry for wallet: %w", err)
	}

	return entry, nil
}

func collectLedgerEntries(rows pgx.Rows) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entry rows: %w", err)
	}
	return entries, nil
}
