package middleware

import (
	"context"
	"net/http"
	"strings"
)

type TokenParser interface {
	ParseToken(token string) (string, error)
}

type contextKey string

const ViewerContextKey contextKey = "viewer"

// AuthMiddleware resolves the bearer token to the marketplace user id of the
// viewer and stores it in the request context.
func AuthMiddleware(tp TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			viewerID, err := tp.ParseToken(tokenStr)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ViewerContextKey, viewerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ViewerID returns the id stored by AuthMiddleware.
func ViewerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ViewerContextKey).(string)
	return id, ok && id != ""
}
