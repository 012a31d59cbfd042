package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/hospital-management/internal/auth"
)

type staticVerifier struct {
	claims *auth.Claims
}

func (v staticVerifier) VerifyToken(token string) (*auth.Claims, error) {
	if token == "good-token" && v.claims != nil {
		return v.claims, nil
	}
	return nil, auth.ErrInvalidToken
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	claims := &auth.Claims{UserID: uuid.New(), Role: auth.RoleDoctor}
	handler := AuthMiddleware(staticVerifier{claims: claims})(okHandler())

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches handler with claims", func(t *testing.T) {
		var got *auth.Claims
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetClaims(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
		h := AuthMiddleware(staticVerifier{claims: claims})(inner)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, claims.UserID, got.UserID)
	})
}

func TestRequireRole(t *testing.T) {
	withClaims := func(r *http.Request, role auth.Role) *http.Request {
		claims := &auth.Claims{UserID: uuid.New(), Role: role}
		return r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
	}

	handler := RequireRole(auth.RoleAdmin, auth.RoleDoctor)(okHandler())

	t.Run("allowed role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withClaims(httptest.NewRequest(http.MethodGet, "/", nil), auth.RoleDoctor))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("forbidden role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withClaims(httptest.NewRequest(http.MethodGet, "/", nil), auth.RolePatient))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no claims at all", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})
	handler := RequestIDMiddleware(inner)

	t.Run("generates one when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagates the caller's", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "req-42", seen)
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
