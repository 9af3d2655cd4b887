package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/services"
)

// EmailVerifier defines the interface that the verification service must implement.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, token string) (string, error)
}

// NewVerifyHandler returns an HTTP handler for the emailed verification link.
// A valid token marks the account verified, opens a session and redirects
// to the chat view; failures render a small HTML error page since the link
// is opened in a browser, not by the API client.
// @Summary Verify email address
// @Description Consumes a single-use verification token from the emailed link.
// @Tags auth
// @Produce html
// @Param token query string true "Verification token"
// @Success 302 "Redirect to the chat view with the session cookie set"
// @Failure 400 "Invalid, missing or expired token"
// @Router /verify [get]
func NewVerifyHandler(svc EmailVerifier, sessions SessionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			renderVerifyError(w, http.StatusBadRequest, "Verification link is missing its token.")
			return
		}

		userID, err := svc.VerifyEmail(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenInvalid):
				renderVerifyError(w, http.StatusBadRequest, "This verification link is invalid or has already been used.")
			case errors.Is(err, services.ErrTokenExpired):
				renderVerifyError(w, http.StatusBadRequest, "This verification link has expired. Please register again.")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				renderVerifyError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
			}
			return
		}

		cookie, err := sessions.Create(r.Context(), userID)
		if err != nil {
			logger.Log.Errorw("failed to create session", "err", err)
			renderVerifyError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
			return
		}

		http.SetCookie(w, cookie)
		http.Redirect(w, r, "/chat", http.StatusFound)
	}
}

func renderVerifyError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<html><body><h2>Email verification failed</h2><p>%s</p></body></html>`, message)
}
