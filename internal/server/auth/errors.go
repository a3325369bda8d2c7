package auth

import (
	"errors"
	"fmt"
)

// Credential path. Unknown email and wrong password both yield
// ErrInvalidCredentials.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
)

// Token path.
var (
	ErrTokenMalformed        = errors.New("token: malformed")
	ErrTokenInvalidSignature = errors.New("token: invalid signature")
	ErrTokenExpired          = errors.New("token: expired")
	ErrTokenInvalidPayload   = errors.New("token: invalid payload")

	ErrTokenMissing = fmt.Errorf("%w: missing bearer token", ErrTokenMalformed)
)

// Setup errors.
var (
	ErrMissingSecret      = errors.New("signing secret is not configured")
	ErrIncompleteIdentity = errors.New("identity must carry user id and email")
	ErrEmptyPassword      = errors.New("password must not be empty")
)

// Reason is the outward code of a token rejection.
type Reason string

const (
	ReasonMalformed        Reason = "malformed"
	ReasonInvalidSignature Reason = "invalid-signature"
	ReasonExpired          Reason = "expired"
	ReasonInvalidPayload   Reason = "invalid-payload"
)

// RejectReason reports the token rejection code carried by err.
func RejectReason(err error) (Reason, bool) {
	switch {
	case errors.Is(err, ErrTokenMalformed):
		return ReasonMalformed, true
	case errors.Is(err, ErrTokenInvalidSignature):
		return ReasonInvalidSignature, true
	case errors.Is(err, ErrTokenExpired):
		return ReasonExpired, true
	case errors.Is(err, ErrTokenInvalidPayload):
		return ReasonInvalidPayload, true
	default:
		return "", false
	}
}

// IsRejected reports whether err is a negative verification outcome, as
// opposed to an infrastructure failure.
func IsRejected(err error) bool {
	if errors.Is(err, ErrInvalidCredentials) {
		return true
	}
	_, ok := RejectReason(err)
	return ok
}
