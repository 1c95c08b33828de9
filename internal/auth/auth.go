// Package auth is the single authorization gate for mutating operations.
// Any signed-in user may mutate any document; there are no per-document
// permissions.
package auth

import (
	"errors"

	"github.com/davrot/scribe/internal/sessions"
)

var ErrUnauthorized = errors.New("sign-in required")

// IsAuthenticated reports whether the session carries a username marker.
func IsAuthenticated(s *sessions.Session) bool {
	return s != nil && s.Username != ""
}

// Require returns ErrUnauthorized when the session is not authenticated.
// The caller decides how to respond (the HTTP layer redirects with a flash).
func Require(s *sessions.Session) error {
	if !IsAuthenticated(s) {
		return ErrUnauthorized
	}
	return nil
}
