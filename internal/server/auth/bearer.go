package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/credgate/internal/common"
)

// BearerToken returns the value after "Bearer " in an Authorization header.
// The scheme is matched case-sensitively and the value must not contain
// whitespace.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrTokenMissing
	}
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", fmt.Errorf("%w: authorization scheme must be Bearer", ErrTokenMalformed)
	}

	token := strings.TrimPrefix(header, common.BearerPrefix)
	if token == "" {
		return "", ErrTokenMissing
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return "", fmt.Errorf("%w: whitespace in bearer token", ErrTokenMalformed)
	}
	return token, nil
}
