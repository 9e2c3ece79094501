package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/bookapi/internal/dbx"
	"github.com/dmitrijs2005/bookapi/internal/logging"
	"github.com/dmitrijs2005/bookapi/internal/server/auth"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/repomanager"
)

var testTokenConfig = auth.TokenConfig{
	Key:      []byte("TestSecretKey123456789"),
	Issuer:   "BookAPI",
	Audience: "BookAPIUsers",
}

func newTestIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	iss, err := auth.NewIssuer(testTokenConfig)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func newTestValidator(t *testing.T) *auth.Validator {
	t.Helper()
	v, err := auth.NewValidator(testTokenConfig)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

// fakeRepoManager serves fixed repositories and runs WithTx inline.
type fakeRepoManager struct {
	accounts accounts.Repository
	books    books.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) WithTx(ctx context.Context, _ *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }
func (m *fakeRepoManager) Books(dbx.DBTX) books.Repository       { return m.books }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

type failingAccounts struct{ err error }

func (f *failingAccounts) ExistsByUsername(context.Context, string) (bool, error) { return false, f.err }
func (f *failingAccounts) Create(context.Context, *models.Account) error           { return f.err }
func (f *failingAccounts) GetByUsername(context.Context, string) (*models.Account, error) {
	return nil, f.err
}

type failingBooks struct{ err error }

func (f *failingBooks) List(context.Context) ([]*models.Book, error)              { return nil, f.err }
func (f *failingBooks) GetByISBN(context.Context, string) (*models.Book, error)   { return nil, f.err }
func (f *failingBooks) Create(context.Context, *models.Book) error                { return f.err }
func (f *failingBooks) Update(context.Context, *models.Book) error                { return f.err }
func (f *failingBooks) Delete(context.Context, string) error                      { return f.err }
func (f *failingBooks) SetCoverKey(context.Context, string, string) error         { return f.err }

var nop logging.Logger = logging.Nop{}
