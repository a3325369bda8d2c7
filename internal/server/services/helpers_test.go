package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/credgate/internal/dbx"
	"github.com/dmitrijs2005/credgate/internal/logging"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"github.com/dmitrijs2005/credgate/internal/server/models"
	"github.com/dmitrijs2005/credgate/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// failingUsersRepo fails every call with err.
type failingUsersRepo struct {
	err error
}

func (f *failingUsersRepo) Create(context.Context, *models.User) (*models.User, error) {
	return nil, f.err
}

func (f *failingUsersRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}

type fakeRepoManager struct {
	u users.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }

func newTestHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

func newTestTokens(t *testing.T, opts ...auth.TokenOption) *auth.TokenService {
	t.Helper()
	s, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), opts...)
	require.NoError(t, err)
	return s
}

