package models

// MessageDB represents a chat message record in the database.
// Messages are append-only and never updated or deleted.
type MessageDB struct {
	ID        int64  `json:"id" db:"id"`                 // Auto-incrementing primary key
	UserID    string `json:"user_id" db:"user_id"`      // Author
	Body      string `json:"message" db:"body"`         // Message text, 1..1000 chars after trim
	CreatedAt int64  `json:"createdAt" db:"created_at"` // Creation time, epoch milliseconds
}

// MessageWithAuthor is a message joined with its author's email,
// as returned by the list endpoint.
type MessageWithAuthor struct {
	ID        int64  `json:"id" db:"id"`
	Body      string `json:"message" db:"body"`
	Email     string `json:"email" db:"email"`
	CreatedAt int64  `json:"createdAt" db:"created_at"`
}
