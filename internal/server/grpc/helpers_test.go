package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/credgate/internal/logging"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"github.com/dmitrijs2005/credgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credgate/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// newTestServer returns a server over an in-memory store holding
// a@x.com / secret, plus the token service it trusts.
func newTestServer(t *testing.T) (*GRPCServer, *auth.TokenService) {
	t.Helper()

	rm := repomanager.NewMemoryRepositoryManager()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	_, err := services.NewUserService(nil, rm, hasher).Register(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)

	tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	svc := services.NewAuthService(nil, rm, hasher, tokens, nopLogger{})
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, svc), tokens
}
