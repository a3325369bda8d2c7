package auth

import "context"

// Identity is the authenticated principal produced by the credential path.
// It never carries the password hash.
type Identity struct {
	UserID int64
	Email  string
}

// Claims is the principal decoded from a verified access token.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

type ctxKey string

const (
	identityKey ctxKey = "identity"
	claimsKey   ctxKey = "claims"
)

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey).(Claims)
	return c, ok
}
