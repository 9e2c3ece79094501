package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookapi/internal/dbx"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/books"
)

// InMemoryRepositoryManager serves process-local stores. It is used when no
// database DSN is configured and in tests.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	books    *books.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		books:    books.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

// WithTx calls fn directly. The memory stores serialize their own writes.
func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, _ *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) Books(dbx.DBTX) books.Repository {
	return m.books
}
