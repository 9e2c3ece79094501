package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/dbx"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// Create inserts the account. The UNIQUE constraint on username makes the
// insert the authoritative uniqueness check, so a concurrent registration
// that passed ExistsByUsername still fails here.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) error {
	query :=
		`INSERT INTO accounts (id, username, email, stored_secret, created_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Username, account.Email, account.StoredSecret, account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrDuplicateAccount
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, email, stored_secret, created_at FROM accounts
		 WHERE username = $1`

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&a.ID, &a.Username, &a.Email, &a.StoredSecret, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}
