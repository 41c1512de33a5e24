package service

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the identity carried by a session token.
type Claims struct {
	Subject   uuid.UUID `json:"sub"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenIssuer signs and verifies stateless session tokens.
type TokenIssuer interface {
	// Issue signs subject, email and name; IssuedAt and ExpiresAt are set by the issuer.
	Issue(claims Claims) (string, error)

	// Verify fails with domainerrors.ErrInvalidToken on a bad signature, malformed token or expiry.
	Verify(token string) (*Claims, error)
}
