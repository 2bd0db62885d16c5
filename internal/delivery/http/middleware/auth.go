package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "classlisting/internal/delivery/http/helpers"
	"classlisting/internal/domain"
)

type contextKey string

const partnerIDKey contextKey = "partnerID"

// SetPartnerID returns a context with the partner ID set. Used by auth middleware.
func SetPartnerID(ctx context.Context, partnerID string) context.Context {
	return context.WithValue(ctx, partnerIDKey, partnerID)
}

// PartnerIDFromContext returns the authenticated partner ID from the context, if present.
func PartnerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(partnerIDKey).(string)
	return id, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// partner ID in the request context. If the token is missing or invalid, it
// responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			partnerID, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("token verification failed", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetPartnerID(r.Context(), partnerID))
			next(w, r)
		}
	}
}
