package chi

import (
	"context"
	"net/http"
	"strings"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type viewerKey struct{}

// ContextWithViewer stores the authenticated user id.
func ContextWithViewer(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, viewerKey{}, userID)
}

// ViewerFromContext returns the authenticated user id, 0 when anonymous.
func ViewerFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(viewerKey{}).(int64)
	return id
}

// BearerAuthMiddleware resolves Bearer tokens to user ids. Requests without an
// Authorization header continue anonymously; unknown tokens are rejected.
func BearerAuthMiddleware(tokens map[string]int64) func(http.Handler) http.Handler {
	valid := make(map[string]int64, len(tokens))
	for k, id := range tokens {
		if k != "" && id > 0 {
			valid[k] = id
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorResponseCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			userID, ok := valid[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithViewer(r.Context(), userID)))
		})
	}
}
