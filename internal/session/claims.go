// ABOUTME: Local introspection of the stored bearer token
// ABOUTME: Decodes registered JWT claims for display only, never for authorization

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can tell about a stored credential without
// asking the server. Purely informational (whoami output, TUI status bar);
// the server remains the only authority on token validity.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
// Tokens without an exp claim never report expired.
func (t TokenInfo) Expired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// InspectToken decodes the credential's registered claims without verifying
// the signature (the client does not hold the server's key, and does not need
// to). Returns false for anything that does not parse as a JWT; opaque
// non-JWT credentials are valid too.
func InspectToken(token string) (TokenInfo, bool) {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, false
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
