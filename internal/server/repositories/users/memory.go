package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/server/models"
)

// MemoryRepository keeps credential records in process memory. It backs the
// development profile when no database DSN is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byMail map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byMail: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byMail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byMail[user.Email] = *user

	return user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byMail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &user, nil
}
