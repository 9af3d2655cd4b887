package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dkravets/verichat/internal/middlewares"
)

// CurrentUser is the authenticated caller as reported by /api/user
// swagger:model CurrentUser
type CurrentUser struct {
	// default: u1756500000000abcdEFGH12345678
	ID string `json:"id"`

	// default: john@example.com
	Email string `json:"email"`

	// default: true
	Verified bool `json:"verified"`
}

// UserResponse represents a successful current-user response
// swagger:model UserResponse
type UserResponse struct {
	// default: true
	OK bool `json:"ok"`

	User CurrentUser `json:"user"`
}

// UserErrorResponse represents an error response for /api/user
// swagger:model UserErrorResponse
type UserErrorResponse struct {
	// default: false
	OK bool `json:"ok"`

	// Error message
	// default: Not authenticated
	Error string `json:"error"`
}

// NewUserHandler returns an HTTP handler that reports the authenticated
// caller. The route sits behind AuthMiddleware, which resolves the session
// cookie and places the user in the request context.
// @Summary Current user
// @Description Returns the identity bound to the caller's session.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.UserResponse "Authenticated user"
// @Failure 401 {object} handlers.UserErrorResponse "Not authenticated"
// @Router /api/user [get]
func NewUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Error: "Not authenticated",
			})
			return
		}

		json.NewEncoder(w).Encode(UserResponse{
			OK: true,
			User: CurrentUser{
				ID:       user.UserID,
				Email:    user.Email,
				Verified: user.Verified,
			},
		})
	}
}
