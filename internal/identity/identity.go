// Package identity resolves display names from tokens issued by the
// external auth collaborator. The claims are trusted as given; token
// verification belongs to the issuer, not to this service.
package identity

import "github.com/golang-jwt/jwt/v5"

var nameClaims = []string{"name", "username", "nickname"}

// DisplayName extracts a display name from an externally issued token.
// Returns the empty string when the token is absent or unreadable.
func DisplayName(token string) string {
	if token == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}

	for _, key := range nameClaims {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}

	if sub, err := claims.GetSubject(); err == nil {
		return sub
	}
	return ""
}
