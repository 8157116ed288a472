package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	domainErrors "github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

var _ ports.AssetTypeRepository = (*AssetTypeRepository)(nil)

// AssetTypeRepository implements ports.AssetTypeRepository. Asset types are
// reference data — seeded once at bootstrap (cmd/seed), read everywhere else.
type AssetTypeRepository struct {
	pool *pgxpool.Pool
}

// NewAssetTypeRepository creates a new AssetTypeRepository.
func NewAssetTypeRepository(pool *pgxpool.Pool) *AssetTypeRepository {
	return &AssetTypeRepository{pool: pool}
}

func (r *AssetTypeRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const assetTypeColumns = `id, code, name, created_at`

// Save upserts an asset type by ID.
func (r *AssetTypeRepository) Save(ctx context.Context, assetType *entities.AssetType) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO asset_types (id, code, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`

	_, err := q.Exec(ctx, query, assetType.ID(), assetType.Code().Code(), assetType.Name(), assetType.CreatedAt())
	if err != nil {
		if isUniqueViolation(err, "asset_types_code_unique") {
			return domainErrors.NewBusinessRuleViolation(
				"ASSET_TYPE_ALREADY_EXISTS",
				fmt.Sprintf("asset type %s already exists", assetType.Code().Code()),
				map[string]interface{}{"code": assetType.Code().Code()},
			)
		}
		return fmt.Errorf("save asset type: %w", err)
	}

	return nil
}

func scanAssetType(scanner interface{ Scan(dest ...any) error }) (*entities.AssetType, error) {
	var (
		id        uuid.UUID
		code      string
		name      string
		createdAt time.Time
	)

	if err := scanner.Scan(&id, &code, &name, &createdAt); err != nil {
		return nil, err
	}

	currency, err := valueobjects.NewCurrency(code)
	if err != nil {
		return nil, fmt.Errorf("reconstruct asset type code: %w", err)
	}

	return entities.ReconstructAssetType(id, currency, name, createdAt), nil
}

// FindByID loads an asset type by ID.
func (r *AssetTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AssetType, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + assetTypeColumns + ` FROM asset_types WHERE id = $1`

	assetType, err := scanAssetType(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find asset type by id: %w", err)
	}

	return assetType, nil
}

// FindByCode loads an asset type by its code.
func (r *AssetTypeRepository) FindByCode(ctx context.Context, code valueobjects.Currency) (*entities.AssetType, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + assetTypeColumns + ` FROM asset_types WHERE code = $1`

	assetType, err := scanAssetType(q.QueryRow(ctx, query, code.Code()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find asset type by code: %w", err)
	}

	return assetType, nil
}

// List returns every registered asset type.
func (r *AssetTypeRepository) List(ctx context.Context) ([]*entities.AssetType, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + assetTypeColumns + ` FROM asset_types ORDER BY code`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list asset types: %w", err)
	}
	defer rows.Close()

	var assetTypes []*entities.AssetType
	for rows.Next() {
		assetType, err := scanAssetType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset type row: %w", err)
		}
		assetTypes = append(assetTypes, assetType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset type rows: %w", err)
	}

	return assetTypes, nil
}
