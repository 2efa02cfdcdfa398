package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prudhvinik1/fastcarsales/internal/models"
)

const accountColumns = `id, email, password_hash, role::text, is_active, created_at, updated_at, deleted_at`

var _ AccountRepository = (*PostgresAccountRepository)(nil)

type PostgresAccountRepository struct {
	db DBTX
}

func NewPostgresAccountRepository(db DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (email, password_hash, role, is_active)
              VALUES ($1, $2, $3::text::account_role, $4)
              RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, account.Email, account.PasswordHash, string(account.Role), account.IsActive).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if uniqueConstraint(err) == constraintAccountEmail {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresAccountRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var account models.Account
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts
              SET email = $1, password_hash = $2, role = $3::text::account_role, is_active = $4, updated_at = NOW()
              WHERE id = $5
              RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.IsActive,
		account.ID,
	).Scan(&account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		if uniqueConstraint(err) == constraintAccountEmail {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// Delete deactivates the account and stamps deleted_at; the row is kept.
func (r *PostgresAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE accounts
              SET is_active = FALSE, deleted_at = COALESCE(deleted_at, NOW()), updated_at = NOW()
              WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
