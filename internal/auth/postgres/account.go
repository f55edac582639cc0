package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/employee-admin/internal/auth"
)

// AccountRepository implements auth.AccountRepository over sqlx.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) auth.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByUsername(username string) (*auth.Account, error) {
	var acct auth.Account
	query := `SELECT id, username, password_hash, created_at FROM accounts WHERE username = $1`
	if err := r.db.Get(&acct, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by username: %w", err)
	}
	return &acct, nil
}

func (r *AccountRepository) Create(acct *auth.Account) error {
	query := `INSERT INTO accounts (username, password_hash, created_at) VALUES ($1, $2, now()) RETURNING id, created_at`
	if err := r.db.QueryRowx(query, acct.Username, acct.PasswordHash).Scan(&acct.ID, &acct.CreatedAt); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}
