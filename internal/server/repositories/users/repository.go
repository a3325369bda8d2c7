package users

import (
	"context"

	"github.com/dmitrijs2005/credgate/internal/server/models"
)

// Repository is the credential store. FindByEmail reports an absent record
// as common.ErrorNotFound; any other error is an infrastructure failure.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
