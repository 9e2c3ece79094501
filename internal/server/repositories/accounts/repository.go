// Package accounts stores registered accounts keyed by username.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/bookapi/internal/server/models"
)

// Repository is the account store. Create must be atomic with respect to
// username uniqueness and report a clash as common.ErrDuplicateAccount.
type Repository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, account *models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}
