package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/middlewares"
	"github.com/dkravets/verichat/internal/services"
)

// MessagePoster defines the interface that the message service must implement.
type MessagePoster interface {
	Post(ctx context.Context, userID, text string) error
}

// PostMessageRequest represents the JSON body for posting a message
// swagger:model PostMessageRequest
type PostMessageRequest struct {
	// Message text, 1..1000 characters after trimming
	// required: true
	// default: hi
	Message string `json:"message"`
}

// PostMessageResponse represents a successful post acknowledgment
// swagger:model PostMessageResponse
type PostMessageResponse struct {
	// default: true
	OK bool `json:"ok"`

	// Success message
	// default: Message sent
	Message string `json:"message"`
}

// PostMessageErrorResponse represents an error response for posting
// swagger:model PostMessageErrorResponse
type PostMessageErrorResponse struct {
	// default: false
	OK bool `json:"ok"`

	// Error message
	// default: Message is empty
	Error string `json:"error"`
}

// NewPostMessageHandler returns an HTTP handler for posting a chat message.
// The route sits behind AuthMiddleware.
// @Summary Post a message
// @Description Appends a message to the shared room.
// @Tags messages
// @Accept json
// @Produce json
// @Param postMessageRequest body handlers.PostMessageRequest true "Message to post"
// @Success 200 {object} handlers.PostMessageResponse "Message accepted"
// @Failure 400 {object} handlers.PostMessageErrorResponse "Empty or too-long message"
// @Failure 401 {object} handlers.PostMessageErrorResponse "Not authenticated"
// @Router /api/messages [post]
func NewPostMessageHandler(svc MessagePoster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(PostMessageErrorResponse{
				Error: "Not authenticated",
			})
			return
		}

		var req PostMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PostMessageErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		if err := svc.Post(r.Context(), user.UserID, req.Message); err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyMessage):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PostMessageErrorResponse{
					Error: "Message is empty",
				})
			case errors.Is(err, services.ErrMessageTooLong):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PostMessageErrorResponse{
					Error: "Message is too long",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(PostMessageErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		json.NewEncoder(w).Encode(PostMessageResponse{
			OK:      true,
			Message: "Message sent",
		})
	}
}
