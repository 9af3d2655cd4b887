package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/models"
)

// MessageLister defines the interface that the message service must implement.
type MessageLister interface {
	List(ctx context.Context, afterMs int64) ([]models.MessageWithAuthor, error)
}

// ListMessagesResponse represents a successful message list response
// swagger:model ListMessagesResponse
type ListMessagesResponse struct {
	// default: true
	OK bool `json:"ok"`

	// Messages newer than the cursor, oldest first, at most 100
	Messages []models.MessageWithAuthor `json:"messages"`
}

// ListMessagesErrorResponse represents an error response for listing
// swagger:model ListMessagesErrorResponse
type ListMessagesErrorResponse struct {
	// default: false
	OK bool `json:"ok"`

	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewListMessagesHandler returns an HTTP handler for the polling read.
// Reads require no authentication; callers pass the highest createdAt they
// have seen as the "after" cursor and poll at their own interval.
// @Summary List messages
// @Description Returns messages created after the given epoch-ms cursor, ascending, capped at 100.
// @Tags messages
// @Produce json
// @Param after query int false "Epoch-millisecond cursor, defaults to 0"
// @Success 200 {object} handlers.ListMessagesResponse "Messages newer than the cursor"
// @Failure 500 {object} handlers.ListMessagesErrorResponse "Store failure"
// @Router /api/messages [get]
func NewListMessagesHandler(svc MessageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var after int64
		if raw := r.URL.Query().Get("after"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ListMessagesErrorResponse{
					Error: "Invalid after parameter",
				})
				return
			}
			after = parsed
		}

		messages, err := svc.List(r.Context(), after)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListMessagesErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		json.NewEncoder(w).Encode(ListMessagesResponse{
			OK:       true,
			Messages: messages,
		})
	}
}
