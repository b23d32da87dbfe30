package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"mindwell/internal/service"

	"github.com/gorilla/mux"
)

type contextKey string

const SessionIDKey contextKey = "sessionId"

// AuthMiddleware provides session token and admin key checks
type AuthMiddleware struct {
	authSvc  *service.AuthService
	adminKey string
}

// NewAuthMiddleware creates a new auth middleware. An empty adminKey
// disables admin routes.
func NewAuthMiddleware(authSvc *service.AuthService, adminKey string) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, adminKey: adminKey}
}

// RequireSession validates the bearer token against the {id} route variable
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		sessionID := mux.Vars(r)["id"]
		claims, err := m.authSvc.Authorize(token, sessionID)
		if errors.Is(err, service.ErrForbidden) {
			http.Error(w, `{"error":"token not valid for this session"}`, http.StatusForbidden)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin checks the X-Admin-Key header
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.adminKey == "" {
			http.Error(w, `{"error":"admin access is disabled"}`, http.StatusForbidden)
			return
		}
		key := r.Header.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.adminKey)) != 1 {
			http.Error(w, `{"error":"invalid admin key"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionID extracts the authorized session ID from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
