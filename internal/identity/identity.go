// Package identity extracts the signed-in user's id from a bearer token for
// display and permission hints. Nothing here verifies a signature; the
// service authorizes every mutating call on its own.
package identity

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Candidate claim names, checked in order; the first non-empty one wins.
var claimOrder = []string{"uzytkownik_id", "user_id", "sub", "id"}

// UserIDFromToken decodes the payload segment of a JWT and returns the user
// id it carries, or 0 for a missing or malformed token. It never fails hard.
func UserIDFromToken(token string) int {
	if token == "" {
		return 0
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}

	for _, name := range claimOrder {
		if id := claimAsID(claims[name]); id != 0 {
			return id
		}
	}
	return 0
}

func claimAsID(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		id, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}
