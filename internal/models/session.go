package models

// SessionDB represents an authenticated session record in the database.
// Sessions are opaque server-side records; there is no in-memory state.
type SessionDB struct {
	SessionID string `json:"id" db:"id"`                 // Primary key, unguessable identifier
	UserID    string `json:"user_id" db:"user_id"`       // Owning user
	ExpiresAt int64  `json:"expires_at" db:"expires_at"` // Expiry time, epoch milliseconds
}
