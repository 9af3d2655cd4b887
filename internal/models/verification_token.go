package models

// VerificationTokenDB represents an email verification token record.
// A token is valid only while it exists and now < ExpiresAt; it is deleted
// on first successful use or on expiry detection.
type VerificationTokenDB struct {
	Token     string `json:"token" db:"token"`           // Primary key, unguessable
	UserID    string `json:"user_id" db:"user_id"`       // Owning user
	ExpiresAt int64  `json:"expires_at" db:"expires_at"` // Expiry time, epoch milliseconds
}
