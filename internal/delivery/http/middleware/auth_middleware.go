package middleware

import (
	"strings"

	deliverycontext "quill/internal/delivery/context"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/errors"
	"quill/internal/infra/metrics"
	"quill/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates bearer tokens through AuthUsecase.Me.
type AuthMiddleware struct {
	auth    usecase.AuthUsecase
	metrics *metrics.Metrics
}

func NewAuthMiddleware(auth usecase.AuthUsecase, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, metrics: m}
}

// Authenticate rejects the request with InvalidToken unless it carries a valid
// bearer token, and stores the verified claims on the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			m.metrics.ObserveAuth("verify", domainerrors.KindInvalidToken.String())

			return errors.WithStack(domainerrors.ErrInvalidToken.WithDetails("Authorization header must carry a Bearer token"))
		}

		claims, err := m.auth.Me(c.Request().Context(), token)
		if err != nil {
			m.metrics.ObserveAuth("verify", domainerrors.KindOf(err).String())

			return errors.WithStack(err)
		}
		m.metrics.ObserveAuth("verify", "success")

		deliverycontext.SetClaims(c, claims)

		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
