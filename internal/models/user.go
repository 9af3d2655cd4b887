package models

// UserDB represents a user record in the database.
type UserDB struct {
	UserID       string `json:"id" db:"id"`                 // Primary key, opaque identifier
	Email        string `json:"email" db:"email"`           // Unique email address
	PasswordHash string `json:"-" db:"password_hash"`       // Salted password digest, salt:hex form
	Verified     bool   `json:"verified" db:"verified"`     // Whether the email has been confirmed
	CreatedAt    int64  `json:"created_at" db:"created_at"` // Creation time, epoch milliseconds
}
