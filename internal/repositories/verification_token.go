package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/models"
)

type VerificationTokenReadRepository struct {
	db *sqlx.DB
}

func NewVerificationTokenReadRepository(db *sqlx.DB) *VerificationTokenReadRepository {
	return &VerificationTokenReadRepository{db: db}
}

// Get returns the verification token record, or nil if it does not exist
// (never issued, already consumed, or cleaned up).
func (r *VerificationTokenReadRepository) Get(ctx context.Context, token string) (*models.VerificationTokenDB, error) {
	const query = `
		SELECT token, user_id, expires_at
		FROM verification_tokens
		WHERE token = $1
	`

	var record models.VerificationTokenDB
	err := r.db.GetContext(ctx, &record, query, token)

	logger.Log.Debugw("verification token query",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

type VerificationTokenWriteRepository struct {
	db *sqlx.DB
}

func NewVerificationTokenWriteRepository(db *sqlx.DB) *VerificationTokenWriteRepository {
	return &VerificationTokenWriteRepository{db: db}
}

// Save inserts a new verification token row.
func (r *VerificationTokenWriteRepository) Save(ctx context.Context, record models.VerificationTokenDB) error {
	const query = `
		INSERT INTO verification_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, record.Token, record.UserID, record.ExpiresAt)

	logger.Log.Debugw("verification token insert",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", record.UserID,
		"error", err,
	)

	return err
}

// Delete consumes a token. Deleting an absent token is not an error.
func (r *VerificationTokenWriteRepository) Delete(ctx context.Context, token string) error {
	const query = `DELETE FROM verification_tokens WHERE token = $1`

	_, err := r.db.ExecContext(ctx, query, token)

	logger.Log.Debugw("verification token delete",
		"query", query,
		"error", err,
	)

	return err
}
