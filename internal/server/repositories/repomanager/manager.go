// Package repomanager vends the account and book stores for a chosen backend
// and runs schema migrations for it.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookapi/internal/dbx"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/books"
)

// RepositoryManager hands out repositories bound to a DBTX. Backends that do
// not use database/sql ignore the db arguments.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	// WithTx runs fn inside one unit of work.
	WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Accounts(db dbx.DBTX) accounts.Repository
	Books(db dbx.DBTX) books.Repository
}
