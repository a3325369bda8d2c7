package auth

import (
	"context"

	"github.com/dmitrijs2005/credgate/internal/logging"
)

// State of a single authentication attempt.
//
//	Unauthenticated -> Verifying -> Authenticated
//	                            \-> Rejected
type State int

const (
	StateUnauthenticated State = iota
	StateVerifying
	StateAuthenticated
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Attempt is what a transport extracted from an inbound call. Credential
// guards read Email and Password, token guards read Authorization.
type Attempt struct {
	Email         string
	Password      string
	Authorization string
}

// Guard authenticates an attempt. On success it returns ctx carrying the
// principal; on failure it returns the unchanged ctx and the rejection.
type Guard interface {
	Authenticate(ctx context.Context, attempt Attempt) (context.Context, error)
}

// CredentialChecker is satisfied by *CredentialVerifier.
type CredentialChecker interface {
	VerifyCredentials(ctx context.Context, email, password string) (Identity, error)
}

// TokenVerifier is satisfied by *TokenService.
type TokenVerifier interface {
	Verify(tokenString string) (Claims, error)
}

// CredentialGuard attaches an Identity for a valid email/password pair.
type CredentialGuard struct {
	verifier CredentialChecker
}

func NewCredentialGuard(v CredentialChecker) *CredentialGuard {
	return &CredentialGuard{verifier: v}
}

func (g *CredentialGuard) Authenticate(ctx context.Context, a Attempt) (context.Context, error) {
	id, err := g.verifier.VerifyCredentials(ctx, a.Email, a.Password)
	if err != nil {
		return ctx, err
	}
	return WithIdentity(ctx, id), nil
}

// TokenGuard attaches Claims for a valid bearer token.
type TokenGuard struct {
	tokens TokenVerifier
}

func NewTokenGuard(v TokenVerifier) *TokenGuard {
	return &TokenGuard{tokens: v}
}

func (g *TokenGuard) Authenticate(ctx context.Context, a Attempt) (context.Context, error) {
	raw, err := BearerToken(a.Authorization)
	if err != nil {
		return ctx, err
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return ctx, err
	}
	return WithClaims(ctx, claims), nil
}

// Gate runs an operation behind a Guard. The operation runs only after the
// attempt reaches StateAuthenticated.
type Gate struct {
	name   string
	guard  Guard
	logger logging.Logger
}

func NewGate(name string, guard Guard, logger logging.Logger) *Gate {
	return &Gate{
		name:   name,
		guard:  guard,
		logger: logger.With("module", "auth_guard", "guard", name),
	}
}

// Run authenticates the attempt and, when authenticated, calls op with the
// enriched context. A rejection or store failure is returned as is and op is
// never called.
func (g *Gate) Run(ctx context.Context, attempt Attempt, op func(ctx context.Context) error) error {
	state := StateUnauthenticated
	state = g.advance(ctx, state, StateVerifying)

	authCtx, err := g.guard.Authenticate(ctx, attempt)
	if err != nil {
		if IsRejected(err) {
			g.advance(ctx, state, StateRejected)
		}
		g.report(ctx, err)
		return err
	}

	g.advance(ctx, state, StateAuthenticated)
	return op(authCtx)
}

func (g *Gate) advance(ctx context.Context, from, to State) State {
	g.logger.Debug(ctx, "auth state", "from", from.String(), "to", to.String())
	return to
}

func (g *Gate) report(ctx context.Context, err error) {
	if !IsRejected(err) {
		g.logger.Error(ctx, "authentication could not complete", "error", err)
		return
	}
	if reason, ok := RejectReason(err); ok {
		g.logger.Warn(ctx, "authentication rejected", "reason", string(reason))
		return
	}
	g.logger.Warn(ctx, "authentication rejected", "reason", ErrInvalidCredentials.Error())
}
