// Package jwt issues and checks the bearer tokens accepted by the document
// routes. A token names the account, the writer identity stamped on
// documents, the privileges the routes check, and the session it belongs to.
package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	issuer   = "go-erp-sync"
	lifetime = 24 * time.Hour

	fallbackSecret = "go-erp-sync-dev-secret"
)

type Claims struct {
	Email      string   `json:"email"`
	Privileges []string `json:"privileges"`
	// Session must equal the account's current session for the token to be honored.
	Session string `json:"session"`
	jwt.RegisteredClaims
}

// UserID is the account the token was issued to.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Allows reports whether the token carries privilege.
func (c *Claims) Allows(privilege string) bool {
	for _, p := range c.Privileges {
		if p == privilege {
			return true
		}
	}
	return false
}

func secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(fallbackSecret)
}

// Issue signs a token for one session of an account.
func Issue(userID uuid.UUID, email string, privileges []string, session string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:      email,
		Privileges: privileges,
		Session:    session,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Parse verifies signature, issuer and expiry. Every failure is ErrInvalidToken.
func Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return secret(), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
