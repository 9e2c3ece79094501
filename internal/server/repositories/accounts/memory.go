package accounts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
)

// MemoryRepository keeps accounts in a map guarded by a mutex. Create checks
// and inserts under the same lock.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]models.Account)}
}

func (r *MemoryRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[username]
	return ok, nil
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Username]; ok {
		return common.ErrDuplicateAccount
	}
	r.accounts[account.Username] = *account
	return nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}
