package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions map[string]uint

func (f fakeSessions) ValidateSession(_ context.Context, token string) (uint, error) {
	id, ok := f[token]
	if !ok {
		return 0, errors.New("token not found")
	}
	return id, nil
}

func newServer(t *testing.T, sessions fakeSessions, extra ...echo.MiddlewareFunc) (*echo.Echo, *utils.JWTManager) {
	t.Helper()

	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	mw := append([]echo.MiddlewareFunc{AuthMiddleware(jwtManager, sessions)}, extra...)
	e.GET("/users/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}, mw...)

	return e, jwtManager
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	sessions := fakeSessions{}
	e, jwtManager := newServer(t, sessions)

	token, err := jwtManager.GenerateJWT("5", domain.RoleVendor)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		rec := do(e, "/users/5", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Missing authorization header"}`, rec.Body.String())
	})

	t.Run("revoked session", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(e, "/users/5", token).Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(e, "/users/5", "not-a-jwt").Code)
	})

	t.Run("session of another user", func(t *testing.T) {
		sessions[token] = 6
		defer delete(sessions, token)
		assert.Equal(t, http.StatusUnauthorized, do(e, "/users/5", token).Code)
	})

	t.Run("valid", func(t *testing.T) {
		sessions[token] = 5
		defer delete(sessions, token)

		rec := do(e, "/users/5", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":5,"role":"vendor"}`, rec.Body.String())
	})
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		mw     echo.MiddlewareFunc
		userID string
		role   string
		path   string
		want   int
	}{
		{name: "admin only allows admin", mw: AdminOnly(), userID: "1", role: domain.RoleAdmin, path: "/users/9", want: http.StatusOK},
		{name: "admin only rejects vendor", mw: AdminOnly(), userID: "2", role: domain.RoleVendor, path: "/users/2", want: http.StatusForbidden},
		{name: "vendor only allows vendor", mw: VendorOnly(), userID: "2", role: domain.RoleVendor, path: "/users/2", want: http.StatusOK},
		{name: "vendor only rejects customer", mw: VendorOnly(), userID: "3", role: domain.RoleCustomer, path: "/users/3", want: http.StatusForbidden},
		{name: "self allowed", mw: SelfOrAdmin(), userID: "3", role: domain.RoleCustomer, path: "/users/3", want: http.StatusOK},
		{name: "other user rejected", mw: SelfOrAdmin(), userID: "3", role: domain.RoleCustomer, path: "/users/4", want: http.StatusForbidden},
		{name: "admin reads anyone", mw: SelfOrAdmin(), userID: "1", role: domain.RoleAdmin, path: "/users/4", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := fakeSessions{}
			e, jwtManager := newServer(t, sessions, tt.mw)

			token, err := jwtManager.GenerateJWT(tt.userID, tt.role)
			require.NoError(t, err)
			id, err := strconv.ParseUint(tt.userID, 10, 64)
			require.NoError(t, err)
			sessions[token] = uint(id)

			assert.Equal(t, tt.want, do(e, tt.path, token).Code)
		})
	}
}

func TestRoleRejectionUsesMessageEnvelope(t *testing.T) {
	sessions := fakeSessions{}
	e, jwtManager := newServer(t, sessions, AdminOnly())

	token, err := jwtManager.GenerateJWT("2", domain.RoleVendor)
	require.NoError(t, err)
	sessions[token] = 2

	rec := do(e, "/users/2", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Insufficient role"}`, rec.Body.String())
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	rec := do(e, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())
}
