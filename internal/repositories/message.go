package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/models"
)

// listLimit caps a single poll; clients resume from their cursor.
const listLimit = 100

type MessageReadRepository struct {
	db *sqlx.DB
}

func NewMessageReadRepository(db *sqlx.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

// ListAfter returns messages created strictly after the given epoch-ms
// watermark, joined with the author email, oldest first. The id column
// breaks ties between messages sharing a millisecond.
func (r *MessageReadRepository) ListAfter(ctx context.Context, afterMs int64) ([]models.MessageWithAuthor, error) {
	const query = `
		SELECT m.id, m.body, u.email, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.created_at > $1
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $2
	`

	messages := make([]models.MessageWithAuthor, 0, listLimit)
	err := r.db.SelectContext(ctx, &messages, query, afterMs, listLimit)

	logger.Log.Debugw("message list",
		"query", strings.Join(strings.Fields(query), " "),
		"after", afterMs,
		"count", len(messages),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return messages, nil
}

type MessageWriteRepository struct {
	db *sqlx.DB
}

func NewMessageWriteRepository(db *sqlx.DB) *MessageWriteRepository {
	return &MessageWriteRepository{db: db}
}

// Save appends a message. The row is immutable once written.
func (r *MessageWriteRepository) Save(ctx context.Context, userID, body string, createdAt int64) error {
	const query = `
		INSERT INTO messages (user_id, body, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, userID, body, createdAt)

	logger.Log.Debugw("message insert",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	return err
}
