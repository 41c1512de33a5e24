package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "quill/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRequestID(t *testing.T, header string) (string, string, bool) {
	t.Helper()

	m := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, header)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var seen string
	var hasLogger bool
	err := m.Process(func(c echo.Context) error {
		seen = deliverycontext.GetRequestIDFromContext(c.Request().Context())
		hasLogger = deliverycontext.GetLogger(c.Request().Context()) != nil

		return nil
	})(c)
	require.NoError(t, err)

	assert.Equal(t, seen, rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, seen, deliverycontext.GetRequestID(c))

	return seen, rec.Header().Get(deliverycontext.HeaderXRequestID), hasLogger
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	id, _, hasLogger := runRequestID(t, "client-abc-123")

	assert.Equal(t, "client-abc-123", id)
	assert.True(t, hasLogger)
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	id, _, _ := runRequestID(t, "")

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRequestIDMiddleware_RejectsUnsafeID(t *testing.T) {
	tests := []string{
		"evil\nlevel=ERROR msg=forged",
		"has space",
		strings.Repeat("a", maxRequestIDLength+1),
	}

	for _, header := range tests {
		id, _, _ := runRequestID(t, header)
		assert.NotEqual(t, header, id)
	}
}
