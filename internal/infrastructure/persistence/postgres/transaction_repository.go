package postgres

import (
	"context"
	"encoding/json"
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

var _ ports.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository implements ports.TransactionRepository.
//
// Idempotency rides on a unique index on idempotency_key. Save is an upsert
// keyed on id: the Transaction Executor saves a MonetaryTransaction once as
// PENDING and again, in the same database transaction, once it is COMPLETED.
// A new row whose idempotency key is already taken still hits the unique
// index: when two concurrent requests race on the same key, the loser's
// INSERT fails there and Save reports it as a DuplicateKeyRace so the
// Idempotency Gate's CheckRace path can reclassify it instead of surfacing a
// raw database error.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const transactionColumns = `id, idempotency_key, transaction_type, status,
	source_wallet_id, destination_wallet_id, asset_type, amount,
	reference_id, metadata, error_message,
	created_at, updated_at, completed_at`

// Save inserts a transaction, or updates it in place if the row already
// exists (the executor re-saving the same aggregate to transition it from
// PENDING to a terminal status within the same database transaction).
func (r *TransactionRepository) Save(ctx context.Context, tx *entities.MonetaryTransaction) error {
	q := r.getQuerier(ctx)

	metadataJSON, err := json.Marshal(tx.Metadata())
	if err != nil {
		return fmt.Errorf("marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (
			id, idempotency_key, transaction_type, status,
			source_wallet_id, destination_wallet_id, asset_type, amount,
			reference_id, metadata, error_message,
			created_at, updated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			updated_at = EXCLUDED.updated_at,
			completed_at = EXCLUDED.completed_at
	`

	_, err = q.Exec(ctx, query,
		tx.ID(),
		tx.IdempotencyKey(),
		string(tx.Type()),
		string(tx.Status()),
		tx.SourceWalletID(),
		tx.DestinationWalletID(),
		tx.Amount().Currency().Code(),
		tx.Amount().Decimal(),
		tx.ReferenceID(),
		metadataJSON,
		tx.ErrorMessage(),
		tx.CreatedAt(),
		tx.UpdatedAt(),
		tx.CompletedAt(),
	)

	if err != nil {
		if isUniqueViolation(err, "transactions_idempotency_key_unique") {
			return domainErrors.ErrDuplicateKeyRace
		}
		if isForeignKeyViolation(err) {
			return domainErrors.NewDomainError("WALLET_NOT_FOUND", "source or destination wallet not found", err)
		}
		return fmt.Errorf("save transaction: %w", err)
	}

	return nil
}

func scanTransaction(scanner interface{ Scan(dest ...any) error }) (*entities.MonetaryTransaction, error) {
	var (
		id                                  uuid.UUID
		idempotencyKey, txTypeStr, statusStr string
		sourceWalletID, destinationWalletID uuid.UUID
		assetTypeCode                       string
		amount                              decimal.Decimal
		referenceID                         string
		metadataJSON                        []byte
		errorMessage                        string
		createdAt, updatedAt                time.Time
		completedAt                         *time.Time
	)

	err := scanner.Scan(
		&id,
		&idempotencyKey,
		&txTypeStr,
		&statusStr,
		&sourceWalletID,
		&destinationWalletID,
		&assetTypeCode,
		&amount,
		&referenceID,
		&metadataJSON,
		&errorMessage,
		&createdAt,
		&updatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	currency, err := valueobjects.NewCurrency(assetTypeCode)
	if err != nil {
		return nil, fmt.Errorf("reconstruct asset type: %w", err)
	}

	money, err := valueobjects.NewMoneyFromDecimal(amount, currency)
	if err != nil {
		return nil, fmt.Errorf("reconstruct amount: %w", err)
	}

	tx, err := entities.ReconstructMonetaryTransaction(
		id,
		idempotencyKey,
		entities.TransactionType(txTypeStr),
		entities.TransactionStatus(statusStr),
		sourceWalletID,
		destinationWalletID,
		money,
		referenceID,
		metadataJSON,
		errorMessage,
		createdAt,
		updatedAt,
		completedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("reconstruct transaction: %w", err)
	}

	return tx, nil
}

// FindByID loads a transaction by ID.
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.MonetaryTransaction, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find transaction by id: %w", err)
	}

	return tx, nil
}

// FindByIdempotencyKey returns (nil, nil) when no transaction with this key
// exists yet — absence is not an error, it's the Idempotency Gate's "first
// attempt" case.
func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entities.MonetaryTransaction, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1`

	tx, err := scanTransaction(q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find transaction by idempotency key: %w", err)
	}

	return tx, nil
}

// FindByWalletID returns transactions touching a wallet on either side,
// newest first.
func (r *TransactionRepository) FindByWalletID(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]*entities.MonetaryTransaction, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE source_wallet_id = $1 OR destination_wallet_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := q.Query(ctx, query, walletID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("find transactions by wallet: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// List returns transactions matching the filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.MonetaryTransaction, error) {
	q := r.getQuerier(ctx)

	query, args := buildTransactionFilterQuery(`SELECT `+transactionColumnsAliased()+` FROM transactions t`, filter)
	argPos := len(args) + 1
	query += fmt.Sprintf(" ORDER BY t.created_at DESC OFFSET $%d LIMIT $%d", argPos, argPos+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Count returns the total number of transactions matching the filter,
// ignoring pagination — used to compute TotalCount alongside List.
func (r *TransactionRepository) Count(ctx context.Context, filter ports.TransactionFilter) (int, error) {
	q := r.getQuerier(ctx)

	query, args := buildTransactionFilterQuery(`SELECT COUNT(*) FROM transactions t`, filter)

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}

	return count, nil
}

func transactionColumnsAliased() string {
	return "t.id, t.idempotency_key, t.transaction_type, t.status, t.source_wallet_id, t.destination_wallet_id, t.asset_type, t.amount, t.reference_id, t.metadata, t.error_message, t.created_at, t.updated_at, t.completed_at"
}

func buildTransactionFilterQuery(base string, filter ports.TransactionFilter) (string, []any) {
	query := base
	needsWalletJoin := filter.UserID != nil
	if needsWalletJoin {
		query += ` JOIN wallets w ON w.id = t.source_wallet_id OR w.id = t.destination_wallet_id`
	}

	query += " WHERE 1=1"
	args := []any{}
	argPos := 1

	if filter.WalletID != nil {
		query += fmt.Sprintf(" AND (t.source_wallet_id = $%d OR t.destination_wallet_id = $%d)", argPos, argPos)
		args = append(args, *filter.WalletID)
		argPos++
	}
	if filter.UserID != nil {
		query += fmt.Sprintf(" AND w.user_id = $%d", argPos)
		args = append(args, *filter.UserID)
		argPos++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.transaction_type = $%d", argPos)
		args = append(args, string(*filter.Type))
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}

	return query, args
}

func collectTransactions(rows pgx.Rows) ([]*entities.MonetaryTransaction, error) {
	var transactions []*entities.MonetaryTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return transactions, nil
}
