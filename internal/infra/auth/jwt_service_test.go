package auth

import (
	"testing"
	"time"

	"quill/config"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/service"
	"quill/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestJWTService(t *testing.T, now func() time.Time) *jwtService {
	t.Helper()

	svc, err := newJWTService(testSecret, time.Hour, now)
	require.NoError(t, err)

	return svc
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newTestJWTService(t, fixedClock(issuedAt))
	userID := uuid.New()

	token, err := svc.Issue(service.Claims{Subject: userID, Email: "a@x.com", Name: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "A", claims.Name)
	assert.True(t, claims.IssuedAt.Equal(issuedAt))
	assert.True(t, claims.ExpiresAt.Equal(issuedAt.Add(time.Hour)))
}

func TestJWTService_WireClaims(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, time.Now)
	userID := uuid.New()

	token, err := svc.Issue(service.Claims{Subject: userID, Email: "a@x.com", Name: "A"})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "HS256", parsed.Header["alg"])
	assert.Equal(t, userID.String(), claims["sub"])
	assert.Equal(t, "a@x.com", claims["email"])
	assert.Equal(t, "A", claims["name"])
	assert.Contains(t, claims, "iat")
	assert.Contains(t, claims, "exp")
	assert.NotContains(t, claims, "password")
}

func TestJWTService_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	issuer := newTestJWTService(t, fixedClock(now.Add(-2*time.Hour)))
	verifier := newTestJWTService(t, fixedClock(now))

	token, err := issuer.Issue(service.Claims{Subject: uuid.New()})
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_WrongSecret(t *testing.T) {
	t.Parallel()

	other, err := newJWTService("another-secret", time.Hour, time.Now)
	require.NoError(t, err)

	token, err := other.Issue(service.Claims{Subject: uuid.New()})
	require.NoError(t, err)

	_, err = newTestJWTService(t, time.Now).Verify(token)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_Malformed(t *testing.T) {
	t.Parallel()

	claims, err := newTestJWTService(t, time.Now).Verify("clearly-not-a-jwt-token-format")
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	assert.Equal(t, domainerrors.KindInvalidToken, domainerrors.KindOf(err))
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestJWTService(t, time.Now).Verify(signed)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_RejectsMissingExpiry(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: uuid.NewString()})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestJWTService(t, time.Now).Verify(signed)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_RejectsNonUUIDSubject(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestJWTService(t, time.Now).Verify(signed)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)

	cfg := &config.Config{Auth: &config.AuthConfig{TokenTTL: 5 * time.Minute}}
	cfg.SecretKey.Access = testSecret

	issuer, err := NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, issuer.(*jwtService).ttl)
}
