package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/services"
)

// SessionInvalidator tears down sessions and produces the clearing cookie.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, sessionID string) error
	Blank() *http.Cookie
}

// LogoutResponse represents the logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// default: true
	OK bool `json:"ok"`

	// Success message
	// default: Logged out
	Message string `json:"message"`
}

// NewLogoutHandler returns an HTTP handler for logout.
// @Summary Log out
// @Description Invalidates the caller's session, if any, and clears the session cookie. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Session cleared"
// @Router /api/logout [post]
func NewLogoutHandler(sessions SessionInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(services.CookieName); err == nil && cookie.Value != "" {
			if err := sessions.Invalidate(r.Context(), cookie.Value); err != nil {
				// The credential is cleared client-side regardless.
				logger.Log.Errorw("failed to invalidate session", "err", err)
			}
		}

		http.SetCookie(w, sessions.Blank())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LogoutResponse{
			OK:      true,
			Message: "Logged out",
		})
	}
}
