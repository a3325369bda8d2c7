// Package services contains server-side use cases. AuthService runs login
// behind the credential guard and protected calls behind the token guard.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/dbx"
	"github.com/dmitrijs2005/credgate/internal/logging"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"github.com/dmitrijs2005/credgate/internal/server/repositories/repomanager"
)

const pingTimeout = 2 * time.Second

// AuthService provides the authentication use cases:
// - Login: verify credentials and issue an access token
// - Authorize: run a protected operation for a valid bearer token
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	login       *auth.Gate
	protect     *auth.Gate
}

// NewAuthService wires both guards. db may be nil for the in-memory profile.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	tokens *auth.TokenService, logger logging.Logger) *AuthService {

	verifier := auth.NewCredentialVerifier(m.Users(db), hasher)

	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		login:       auth.NewGate("credentials", auth.NewCredentialGuard(verifier), logger),
		protect:     auth.NewGate("access_token", auth.NewTokenGuard(tokens), logger),
	}
}

// Login returns a signed access token for a valid email/password pair.
// Unknown email, wrong password and empty fields all yield
// auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var token string
	err := s.login.Run(ctx, auth.Attempt{Email: email, Password: password}, func(ctx context.Context) error {
		id, ok := auth.IdentityFromContext(ctx)
		if !ok {
			return common.ErrorInternal
		}

		t, err := s.tokens.Issue(id)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		token = t
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// Authorize verifies the Authorization header value and runs op with the
// token Claims attached to ctx. op never runs for a rejected token.
func (s *AuthService) Authorize(ctx context.Context, authorization string, op func(ctx context.Context) error) error {
	return s.protect.Run(ctx, auth.Attempt{Authorization: authorization}, op)
}

// Profile returns the principal of an authorized call.
func (s *AuthService) Profile(ctx context.Context) (auth.Claims, error) {
	c, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return auth.Claims{}, errors.New("no claims in context")
	}
	return c, nil
}

// Ping reports whether the credential store is reachable.
func (s *AuthService) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := dbx.Ping(ctx, s.db, pingTimeout); err != nil {
		return fmt.Errorf("%w: %w", auth.ErrStoreUnavailable, err)
	}
	return nil
}
