package context

import (
	"quill/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// KeyClaims is where the auth middleware stores the verified token claims.
const KeyClaims ContextKey = "claims"

func SetClaims(c echo.Context, claims *service.Claims) {
	c.Set(string(KeyClaims), claims)
}

// GetClaims returns the claims of an authenticated request.
func GetClaims(c echo.Context) (*service.Claims, bool) {
	claims, ok := c.Get(string(KeyClaims)).(*service.Claims)

	return claims, ok && claims != nil
}

// GetSubject returns the authenticated user's id, or uuid.Nil on an anonymous request.
func GetSubject(c echo.Context) uuid.UUID {
	if claims, ok := GetClaims(c); ok {
		return claims.Subject
	}

	return uuid.Nil
}
