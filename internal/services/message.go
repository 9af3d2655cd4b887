package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/models"
)

// Error variables
var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message is too long")
)

const maxMessageLength = 1000

// MessageReader defines read operations for messages.
type MessageReader interface {
	ListAfter(ctx context.Context, afterMs int64) ([]models.MessageWithAuthor, error)
}

// MessageWriter defines write operations for messages.
type MessageWriter interface {
	Save(ctx context.Context, userID, body string, createdAt int64) error
}

// MessageService implements the append-only message log.
type MessageService struct {
	reader MessageReader
	writer MessageWriter
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(reader MessageReader, writer MessageWriter) *MessageService {
	return &MessageService{
		reader: reader,
		writer: writer,
	}
}

// Post appends a message for the given user. The text is trimmed of
// leading and trailing whitespace; it must be 1..1000 characters after
// the trim.
func (svc *MessageService) Post(ctx context.Context, userID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return ErrMessageTooLong
	}

	if err := svc.writer.Save(ctx, userID, text, time.Now().UnixMilli()); err != nil {
		logger.Log.Errorw("failed to save message", "err", err)
		return err
	}

	return nil
}

// List returns messages created after the given epoch-ms watermark,
// oldest first, joined with the author email. Callers poll by resending
// the highest createdAt they have seen.
func (svc *MessageService) List(ctx context.Context, afterMs int64) ([]models.MessageWithAuthor, error) {
	messages, err := svc.reader.ListAfter(ctx, afterMs)
	if err != nil {
		logger.Log.Errorw("failed to list messages", "err", err)
		return nil, err
	}
	return messages, nil
}
