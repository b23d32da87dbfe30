package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindwell/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		adminKey string
		header   string
		want     int
	}{
		{"disabled", "", "anything", http.StatusForbidden},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"wrong key", "secret", "secreT", http.StatusUnauthorized},
		{"match", "secret", "secret", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMiddleware(service.NewAuthService("s", time.Hour), tt.adminKey)
			req := httptest.NewRequest(http.MethodGet, "/v1/results/summary", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Key", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.RequireAdmin(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireSessionPutsSessionInContext(t *testing.T) {
	authSvc := service.NewAuthService("s", time.Hour)
	token, _, err := authSvc.IssueSessionToken("abc")
	require.NoError(t, err)

	var got string
	r := mux.NewRouter()
	r.Handle("/sessions/{id}", NewAuthMiddleware(authSvc, "").RequireSession(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetSessionID(r.Context())
		}),
	))

	for _, tt := range []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"own session", "/sessions/abc", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "/sessions/abc", "bearer " + token, http.StatusOK},
		{"other session", "/sessions/xyz", "Bearer " + token, http.StatusForbidden},
		{"basic auth", "/sessions/abc", "Basic " + token, http.StatusUnauthorized},
		{"no header", "/sessions/abc", "", http.StatusUnauthorized},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got = ""
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "abc", got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}
