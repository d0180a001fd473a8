package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/security"
)

type contextKey string

const callerKey contextKey = "caller"

// AuthMiddleware resolves the bearer token into a domain.Caller before any
// handler runs. Requests without a valid token never reach a service.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token", Code: "UNAUTHENTICATED"})
			return
		}

		caller, err := m.tokens.ResolveCaller(token)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "UNAUTHENTICATED"})
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext returns the caller stored by the auth middleware.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}
