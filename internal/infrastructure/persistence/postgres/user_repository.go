// Package postgres implements the storage ports against PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	domainErrors "github.com/vinayak20130/ledgervault/internal/domain/errors"
)

// Compile-time check: UserRepository implements ports.UserRepository
var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository implements ports.UserRepository against PostgreSQL.
//
// Thread-safe: built on a connection pool. Transaction-aware: it picks up a
// transaction stashed in ctx by the UnitOfWork automatically.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// querier abstracts over a pool and a transaction so repository methods
// don't need to know which one they're running against.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// getQuerier returns the transaction stashed in ctx, or the pool.
func (r *UserRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Save upserts a user by ID.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO users (id, email, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
	`

	_, err := q.Exec(ctx, query,
		user.ID(),
		user.Email(),
		user.FullName(),
		string(user.Role()),
		user.CreatedAt(),
		user.UpdatedAt(),
	)

	if err != nil {
		if isUniqueViolation(err, "users_email_unique") {
			return domainErrors.NewBusinessRuleViolation(
				"EMAIL_ALREADY_EXISTS",
				fmt.Sprintf("user with email %s already exists", user.Email()),
				map[string]interface{}{"email": user.Email()},
			)
		}
		return fmt.Errorf("save user: %w", err)
	}

	return nil
}

// scanUser scans one row into a User entity.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*entities.User, error) {
	var (
		userID               uuid.UUID
		email                string
		fullName             string
		role                 string
		createdAt, updatedAt time.Time
	)

	err := scanner.Scan(&userID, &email, &fullName, &role, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructUser(userID, email, fullName, entities.Role(role), createdAt, updatedAt), nil
}

const userColumns = `id, email, full_name, role, created_at, updated_at`

// FindByID loads a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	return user, nil
}

// FindByEmail loads a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks email existence without loading the full row.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := r.getQuerier(ctx)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := q.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email existence: %w", err)
	}

	return exists, nil
}

// List returns a paginated user list.
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]*entities.User, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := q.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}
