package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 60 * time.Minute

var signingMethod = jwt.SigningMethodHS256

// TokenService issues and verifies HS256 access tokens. It holds no state
// besides its read-only configuration and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithTTL sets the token lifetime. Non-positive values are ignored.
func WithTTL(d time.Duration) TokenOption {
	return func(s *TokenService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithIssuer stamps iss on issued tokens and requires it on verification.
func WithIssuer(iss string) TokenOption {
	return func(s *TokenService) {
		s.issuer = iss
	}
}

// WithLeeway tolerates clock skew when checking exp.
func WithLeeway(d time.Duration) TokenOption {
	return func(s *TokenService) {
		if d >= 0 {
			s.leeway = d
		}
	}
}

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(secret []byte, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	s := &TokenService{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs the identity into an access token valid for the configured TTL.
func (s *TokenService) Issue(identity Identity) (string, error) {
	if identity.UserID == 0 || identity.Email == "" {
		return "", ErrIncompleteIdentity
	}

	now := s.now()
	token := jwt.NewWithClaims(signingMethod, accessClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	return token.SignedString(s.secret)
}

// Verify checks structure, signature, expiry and payload, in that order.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenMissing
	}

	mc := jwt.MapClaims{}
	_, err := s.parser().ParseWithClaims(tokenString, mc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, classify(tokenString, err)
	}

	return claimsFromMap(mc)
}

func (s *TokenService) parser() *jwt.Parser {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	return jwt.NewParser(opts...)
}

// classify maps jwt library errors onto the rejection taxonomy.
func classify(tokenString string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		if onlySignatureUnreadable(tokenString) {
			return fmt.Errorf("%w: %w", ErrTokenInvalidSignature, err)
		}
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenInvalidPayload, err)
	}
}

// onlySignatureUnreadable reports whether header and payload decode cleanly,
// which leaves the signature segment as the broken part.
func onlySignatureUnreadable(tokenString string) bool {
	if strings.Count(tokenString, ".") != 2 {
		return false
	}
	_, _, err := jwt.NewParser(jwt.WithStrictDecoding()).ParseUnverified(tokenString, jwt.MapClaims{})
	return err == nil
}

func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return Claims{}, fmt.Errorf("%w: subject missing", ErrTokenInvalidPayload)
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return Claims{}, fmt.Errorf("%w: subject is not a user id", ErrTokenInvalidPayload)
	}

	email, ok := mc["email"].(string)
	if !ok || email == "" {
		return Claims{}, fmt.Errorf("%w: email missing", ErrTokenInvalidPayload)
	}

	return Claims{UserID: id, Email: email}, nil
}
