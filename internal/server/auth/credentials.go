package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/server/models"
)

// CredentialStore looks up credential records by email. An absent record is
// reported as common.ErrorNotFound.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// CredentialVerifier is the only component that reads a password hash.
type CredentialVerifier struct {
	store  CredentialStore
	hasher PasswordHasher
}

func NewCredentialVerifier(store CredentialStore, hasher PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{store: store, hasher: hasher}
}

// VerifyCredentials returns the Identity for a matching email/password pair.
// Unknown email and wrong password both return ErrInvalidCredentials; store
// failures are wrapped in ErrStoreUnavailable.
func (v *CredentialVerifier) VerifyCredentials(ctx context.Context, email, password string) (Identity, error) {
	user, err := v.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return Identity{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if user == nil {
		// an empty hash is malformed, so the hasher still pays for one comparison
		v.hasher.Verify(password, "")
		return Identity{}, ErrInvalidCredentials
	}

	if !v.hasher.Verify(password, user.PasswordHash) {
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{UserID: user.ID, Email: user.Email}, nil
}
