package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/review-desk-api/internal/models"
)

const accountColumns = `id, username, password_hash, role, created_at`

// AccountRepository provides database access for accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. A taken username yields ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO accounts (id, username, password_hash, role, created_at) VALUES (:id, :username, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// FindByUsername returns an account by username, or sql.ErrNoRows.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return &account, nil
}

// FindByID returns an account by identifier, or sql.ErrNoRows.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &account, nil
}

// ListByRole returns accounts of role ordered by username.
func (r *AccountRepository) ListByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 ORDER BY username ASC, id ASC`
	accounts := make([]models.Account, 0)
	if err := r.db.SelectContext(ctx, &accounts, query, role); err != nil {
		return nil, fmt.Errorf("list accounts by role: %w", err)
	}
	return accounts, nil
}

// List returns every account ordered by username.
func (r *AccountRepository) List(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY username ASC, id ASC`
	accounts := make([]models.Account, 0)
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}
