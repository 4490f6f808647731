package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims issued by the chat server.
// The token intentionally carries only the persistent user id: every
// connection resolves the full account from the user store, so a stale
// token can never smuggle outdated role or status information.
type Payload struct {
	// StandardClaims embeds the JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer), used for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the persistent user id the token was issued for.
	UserID string `json:"user"`
}
