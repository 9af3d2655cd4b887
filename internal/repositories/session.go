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

type SessionReadRepository struct {
	db *sqlx.DB
}

func NewSessionReadRepository(db *sqlx.DB) *SessionReadRepository {
	return &SessionReadRepository{db: db}
}

// sessionUserRow flattens the session-user join for sqlx scanning.
type sessionUserRow struct {
	SessionID    string `db:"session_id"`
	ExpiresAt    int64  `db:"expires_at"`
	UserID       string `db:"user_id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Verified     bool   `db:"verified"`
	CreatedAt    int64  `db:"created_at"`
}

// GetWithUser returns the session with the given identifier joined to its
// owning user, or (nil, nil) if the session does not exist. Expiry is not
// checked here; that is the session manager's concern.
func (r *SessionReadRepository) GetWithUser(ctx context.Context, sessionID string) (*models.SessionDB, *models.UserDB, error) {
	const query = `
		SELECT s.id AS session_id, s.expires_at,
		       u.id AS user_id, u.email, u.password_hash, u.verified, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`

	var row sessionUserRow
	err := r.db.GetContext(ctx, &row, query, sessionID)

	logger.Log.Debugw("session query",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	session := &models.SessionDB{
		SessionID: row.SessionID,
		UserID:    row.UserID,
		ExpiresAt: row.ExpiresAt,
	}
	user := &models.UserDB{
		UserID:       row.UserID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Verified:     row.Verified,
		CreatedAt:    row.CreatedAt,
	}
	return session, user, nil
}

type SessionWriteRepository struct {
	db *sqlx.DB
}

func NewSessionWriteRepository(db *sqlx.DB) *SessionWriteRepository {
	return &SessionWriteRepository{db: db}
}

// Save inserts a new session row.
func (r *SessionWriteRepository) Save(ctx context.Context, session models.SessionDB) error {
	const query = `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, session.SessionID, session.UserID, session.ExpiresAt)

	logger.Log.Debugw("session insert",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", session.UserID,
		"error", err,
	)

	return err
}

// Delete removes a session row. Deleting an absent session is not an error.
func (r *SessionWriteRepository) Delete(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM sessions WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, sessionID)

	logger.Log.Debugw("session delete",
		"query", query,
		"error", err,
	)

	return err
}
