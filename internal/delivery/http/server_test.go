package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quill/config"
	httpmiddleware "quill/internal/delivery/http/middleware"
	"quill/internal/delivery/http/response"
	"quill/internal/delivery/http/router"
	"quill/internal/delivery/http/router/handler"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/service"
	"quill/internal/errors"
	"quill/internal/infra/cache"
	"quill/internal/infra/metrics"
	mockusecase "quill/internal/mocks/usecase"
	"quill/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

type envelope struct {
	Success bool                `json:"success"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

type testServer struct {
	echo   *echo.Echo
	authUC *mockusecase.MockAuthUsecase
	postUC *mockusecase.MockPostUsecase
	actor  uuid.UUID
}

func newTestServer(t *testing.T, limiter *cache.Limiter) *testServer {
	t.Helper()

	cfg := &config.Config{
		RateLimit: &config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute},
	}
	cfg.HTTP.MaxRequestBodySize = "100KB"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	ts := &testServer{
		authUC: mockusecase.NewMockAuthUsecase(t),
		postUC: mockusecase.NewMockPostUsecase(t),
		actor:  uuid.Must(uuid.NewV7()),
	}

	ts.echo = newEcho(cfg, logger, m)
	router.NewRouter(router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(ts.authUC, m),
		UserHandler:    handler.NewUserHandler(ts.authUC),
		PostHandler:    handler.NewPostHandler(ts.postUC),
		AuthMiddleware: httpmiddleware.NewAuthMiddleware(ts.authUC, m),
		RateLimit: httpmiddleware.NewRateLimitMiddleware(httpmiddleware.RateLimitParams{
			Limiter: limiter,
			Config:  cfg,
			Metrics: m,
			Logger:  logger,
		}),
		Metrics: m,
	}).RegisterRoutes(ts.echo)

	return ts
}

// authorize makes validToken resolve to the test actor.
func (ts *testServer) authorize() {
	ts.authUC.EXPECT().Me(mock.Anything, validToken).Return(&service.Claims{
		Subject:   ts.actor,
		Email:     "ada@example.com",
		Name:      "Ada",
		IssuedAt:  time.Unix(1700000000, 0),
		ExpiresAt: time.Unix(1700003600, 0),
	}, nil)
}

func (ts *testServer) do(t *testing.T, method, target, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, env := ts.do(t, nethttp.MethodGet, "/health", "", "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(ts *testServer)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: `{"email":"ada@example.com","name":"Ada","password":"Sup3rSecret"}`,
			setup: func(ts *testServer) {
				ts.authUC.EXPECT().Register(mock.Anything, &usecase.RegisterInput{
					Email: "ada@example.com", Name: "Ada", Password: "Sup3rSecret",
				}).Return(&usecase.UserView{ID: uuid.Must(uuid.NewV7()), Email: "ada@example.com", Name: "Ada"}, nil)
			},
			wantStatus: nethttp.StatusCreated,
		},
		{
			name:       "missing fields",
			body:       `{"email":"not-an-email"}`,
			wantStatus: nethttp.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: nethttp.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "duplicate email",
			body: `{"email":"ada@example.com","name":"Ada","password":"Sup3rSecret"}`,
			setup: func(ts *testServer) {
				ts.authUC.EXPECT().Register(mock.Anything, mock.Anything).
					Return(nil, domainerrors.ErrDuplicateEmail.WrapMessage("create user"))
			},
			wantStatus: nethttp.StatusConflict,
			wantCode:   "DUPLICATE_EMAIL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			if tt.setup != nil {
				tt.setup(ts)
			}

			rec, env := ts.do(t, nethttp.MethodPost, "/auth/register", tt.body, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus, env.Code)
			if tt.wantCode == "" {
				assert.True(t, env.Success)
				assert.Equal(t, "User registered successfully", env.Message)
				assert.NotContains(t, string(env.Data), "password")

				return
			}
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestServer_InternalErrorIsSanitized(t *testing.T) {
	ts := newTestServer(t, nil)
	cause := errors.New(`dial tcp 10.0.0.5:5432: password authentication failed for user "quill"`)
	ts.authUC.EXPECT().Login(mock.Anything, mock.Anything).Return(nil, domainerrors.NewInternalError(cause))

	rec, env := ts.do(t, nethttp.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"x"}`, "")

	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.NotContains(t, rec.Body.String(), "quill")
}

func TestServer_Me(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec, env := ts.do(t, nethttp.MethodGet, "/auth/me", "", "")

		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.authUC.EXPECT().Me(mock.Anything, "expired").Return(nil, domainerrors.ErrInvalidToken)

		rec, _ := ts.do(t, nethttp.MethodGet, "/auth/me", "", "expired")

		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.authorize()

		rec, env := ts.do(t, nethttp.MethodGet, "/auth/me", "", validToken)

		require.Equal(t, nethttp.StatusOK, rec.Code)
		var claims usecase.ClaimsView
		require.NoError(t, json.Unmarshal(env.Data, &claims))
		assert.Equal(t, ts.actor, claims.Subject)
		assert.Equal(t, int64(1700003600), claims.ExpiresAt)
	})
}

func TestServer_Users(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec, env := ts.do(t, nethttp.MethodGet, "/users/42", "", "")

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("update passes the actor", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.authorize()
		target := uuid.Must(uuid.NewV7())
		ts.authUC.EXPECT().UpdateUser(mock.Anything, ts.actor, target, mock.Anything).
			Return(nil, domainerrors.ErrForbidden)

		rec, env := ts.do(t, nethttp.MethodPatch, "/users/"+target.String(), `{"name":"Eve"}`, validToken)

		assert.Equal(t, nethttp.StatusForbidden, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("delete self", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.authorize()
		ts.authUC.EXPECT().DeleteUser(mock.Anything, ts.actor, ts.actor).
			Return(&usecase.DeleteOutput{Message: "User " + ts.actor.String() + " deleted"}, nil)

		rec, env := ts.do(t, nethttp.MethodDelete, "/users/"+ts.actor.String(), "", validToken)

		assert.Equal(t, nethttp.StatusOK, rec.Code)
		assert.Equal(t, "User "+ts.actor.String()+" deleted", env.Message)
	})
}

func TestServer_Posts(t *testing.T) {
	t.Run("list binds paging", func(t *testing.T) {
		ts := newTestServer(t, nil)
		next := 3
		prev := 1
		ts.postUC.EXPECT().List(mock.Anything, &usecase.ListPostsInput{Page: 2, Size: 5}).Return(&usecase.PostPage{
			Data: []*usecase.PostView{},
			Meta: usecase.PageMeta{Total: 12, CurrentPage: 2, TotalPerPage: 5, LastPage: 3, PrevPage: &prev, NextPage: &next},
		}, nil)

		rec, env := ts.do(t, nethttp.MethodGet, "/posts?page=2&size=5", "", "")

		require.Equal(t, nethttp.StatusOK, rec.Code)
		var page usecase.PostPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 3, page.Meta.LastPage)
		assert.Equal(t, 3, *page.Meta.NextPage)
	})

	t.Run("non-numeric page", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec, env := ts.do(t, nethttp.MethodGet, "/posts?page=abc", "", "")

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("create requires token", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec, _ := ts.do(t, nethttp.MethodPost, "/posts", `{"title":"t","body":"b"}`, "")

		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	})

	t.Run("create", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.authorize()
		ts.postUC.EXPECT().Create(mock.Anything, ts.actor, &usecase.CreatePostInput{Title: "Hello", Body: "World"}).
			Return(&usecase.PostView{ID: uuid.Must(uuid.NewV7()), AuthorID: ts.actor, Title: "Hello", Body: "World"}, nil)

		rec, env := ts.do(t, nethttp.MethodPost, "/posts", `{"title":"Hello","body":"World"}`, validToken)

		assert.Equal(t, nethttp.StatusCreated, rec.Code)
		assert.Equal(t, "Post created successfully", env.Message)
	})

	t.Run("delete by another author", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.authorize()
		postID := uuid.Must(uuid.NewV7())
		ts.postUC.EXPECT().Delete(mock.Anything, ts.actor, postID).Return(nil, domainerrors.ErrForbidden)

		rec, _ := ts.do(t, nethttp.MethodDelete, "/posts/"+postID.String(), "", validToken)

		assert.Equal(t, nethttp.StatusForbidden, rec.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		ts := newTestServer(t, nil)
		postID := uuid.Must(uuid.NewV7())
		ts.postUC.EXPECT().Get(mock.Anything, postID).Return(nil, domainerrors.NewNotFound("Post", postID))

		rec, env := ts.do(t, nethttp.MethodGet, "/posts/"+postID.String(), "", "")

		assert.Equal(t, nethttp.StatusNotFound, rec.Code)
		assert.Equal(t, "Post with id "+postID.String()+" not found", env.Message)
	})
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, env := ts.do(t, nethttp.MethodGet, "/nope", "", "")

	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "HTTP_ERROR", env.Error.Code)
}

func TestServer_RateLimitsLogin(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ts := newTestServer(t, cache.NewLimiter(client))
	ts.authUC.EXPECT().Login(mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrInvalidCredentials).Times(2)

	body := `{"email":"ada@example.com","password":"wrong"}`
	for range 2 {
		rec, _ := ts.do(t, nethttp.MethodPost, "/auth/login", body, "")
		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	}

	rec, env := ts.do(t, nethttp.MethodPost, "/auth/login", body, "")

	assert.Equal(t, nethttp.StatusTooManyRequests, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	metricsRec, _ := ts.do(t, nethttp.MethodGet, "/metrics", "", "")
	assert.Contains(t, metricsRec.Body.String(), `quill_auth_outcomes_total{operation="login",outcome="InvalidCredentials"} 2`)
	assert.Contains(t, metricsRec.Body.String(), `quill_http_rate_limited_total{route="/auth/login"} 1`)
}

func TestServer_RateLimitIgnoresForwardedFor(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ts := newTestServer(t, cache.NewLimiter(client))
	ts.authUC.EXPECT().Login(mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrInvalidCredentials).Times(2)

	limited := 0
	for i := range 10 {
		req := httptest.NewRequest(nethttp.MethodPost, "/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("203.0.113.%d", i+1))
		req.Header.Set(echo.HeaderXRealIP, fmt.Sprintf("198.51.100.%d", i+1))

		rec := httptest.NewRecorder()
		ts.echo.ServeHTTP(rec, req)
		if rec.Code == nethttp.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 8, limited)
}
