package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload the editor issues for its users. It embeds
// jwt.RegisteredClaims for the standard fields (exp, iat, etc.) and adds
// the owner identity broadcasts are published under.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}
