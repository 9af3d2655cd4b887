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

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil if none exists.
// The match is byte-exact; no case normalization is applied.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT id, email, password_hash, verified, created_at
		FROM users
		WHERE email = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	logger.Log.Debugw("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given identifier, or nil if none exists.
func (r *UserReadRepository) GetByID(ctx context.Context, userID string) (*models.UserDB, error) {
	const query = `
		SELECT id, email, password_hash, verified, created_at
		FROM users
		WHERE id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	logger.Log.Debugw("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user row.
func (r *UserWriteRepository) Save(ctx context.Context, user models.UserDB) error {
	const query = `
		INSERT INTO users (id, email, password_hash, verified, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	args := []any{user.UserID, user.Email, user.PasswordHash, user.Verified, user.CreatedAt}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Debugw("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", user.UserID,
		"error", err,
	)

	return err
}

// SetVerified marks the user's email as confirmed. The flag only ever
// moves from false to true.
func (r *UserWriteRepository) SetVerified(ctx context.Context, userID string) error {
	const query = `UPDATE users SET verified = TRUE WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, userID)

	logger.Log.Debugw("user verify",
		"query", query,
		"user_id", userID,
		"error", err,
	)

	return err
}
