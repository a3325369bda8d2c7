// Package common contains shared constants and sentinel errors used across
// credgate components.
package common

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key) that
// carries the access token on protected calls.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token inside the authorization header.
// The scheme is matched case-sensitively.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"
