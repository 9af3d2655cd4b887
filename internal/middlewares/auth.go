package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/models"
	"github.com/dkravets/verichat/internal/services"
)

// SessionResolver defines the minimal session manager surface needed by
// the middleware.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*models.UserDB, *models.SessionDB, error)
}

type userKey struct{}

type authErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// AuthMiddleware returns a middleware that resolves the session cookie
// through the session manager and stores the authenticated user in the
// request context. Requests without a valid session get a 401 JSON body.
func AuthMiddleware(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var sessionID string
			if cookie, err := r.Cookie(services.CookieName); err == nil {
				sessionID = cookie.Value
			}

			user, _, err := sessions.Resolve(ctx, sessionID)
			if err != nil {
				if err != services.ErrNotAuthenticated {
					logger.Log.Errorw("session resolution failed", "err", err)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(authErrorResponse{
					Error: "Not authenticated",
				})
				return
			}

			ctx = SetUserToContext(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetUserToContext stores the authenticated user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext retrieves the authenticated user from the context.
// Returns nil if the request did not pass AuthMiddleware.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey{}).(*models.UserDB)
	return user
}
