package books

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

// PostgresRepository implements book storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Book, error) {
	query :=
		`SELECT id, isbn, title, author, publication_year, COALESCE(cover_key, '') FROM books
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Book, 0)
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.PublicationYear, &b.CoverKey); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	query :=
		`SELECT id, isbn, title, author, publication_year, COALESCE(cover_key, '') FROM books
		 WHERE isbn = $1`

	b := &models.Book{}
	err := r.db.QueryRowContext(ctx, query, isbn).
		Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.PublicationYear, &b.CoverKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) error {
	query :=
		`INSERT INTO books (isbn, title, author, publication_year)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		book.ISBN, book.Title, book.Author, book.PublicationYear).Scan(&book.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, book *models.Book) error {
	query :=
		`UPDATE books SET title = $2, author = $3, publication_year = $4
		 WHERE isbn = $1`

	res, err := r.db.ExecContext(ctx, query, book.ISBN, book.Title, book.Author, book.PublicationYear)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, isbn string) error {
	query := `DELETE FROM books WHERE isbn = $1`

	res, err := r.db.ExecContext(ctx, query, isbn)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) SetCoverKey(ctx context.Context, isbn, key string) error {
	query := `UPDATE books SET cover_key = $2 WHERE isbn = $1`

	res, err := r.db.ExecContext(ctx, query, isbn, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
