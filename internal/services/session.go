package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/models"
	"github.com/dkravets/verichat/internal/token"
)

// CookieName is the name of the session credential cookie.
const CookieName = "session"

const sessionIDLength = 32

// ErrNotAuthenticated is returned when a request carries no session,
// an unknown session, or an expired one.
var ErrNotAuthenticated = errors.New("not authenticated")

// SessionReader defines read operations for sessions.
type SessionReader interface {
	GetWithUser(ctx context.Context, sessionID string) (*models.SessionDB, *models.UserDB, error)
}

// SessionWriter defines write operations for sessions.
type SessionWriter interface {
	Save(ctx context.Context, session models.SessionDB) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionService manages authenticated sessions. It holds no state of its
// own; session records live entirely in the store.
type SessionService struct {
	reader SessionReader
	writer SessionWriter
	ttl    time.Duration
}

// NewSessionService creates a new SessionService with the given session TTL.
func NewSessionService(reader SessionReader, writer SessionWriter, ttl time.Duration) *SessionService {
	return &SessionService{
		reader: reader,
		writer: writer,
		ttl:    ttl,
	}
}

// Create opens a new session for the user and returns the cookie carrying
// its identifier.
func (svc *SessionService) Create(ctx context.Context, userID string) (*http.Cookie, error) {
	sessionID, err := token.Random(sessionIDLength)
	if err != nil {
		logger.Log.Errorw("failed to generate session id", "err", err)
		return nil, err
	}

	expiresAt := time.Now().Add(svc.ttl)

	session := models.SessionDB{
		SessionID: sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt.UnixMilli(),
	}
	if err := svc.writer.Save(ctx, session); err != nil {
		logger.Log.Errorw("failed to save session", "err", err)
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Resolve validates a session identifier and returns the owning user and
// the session record. Unknown and expired sessions both resolve to
// ErrNotAuthenticated; expired rows are deleted as a side effect.
func (svc *SessionService) Resolve(ctx context.Context, sessionID string) (*models.UserDB, *models.SessionDB, error) {
	if sessionID == "" {
		return nil, nil, ErrNotAuthenticated
	}

	session, user, err := svc.reader.GetWithUser(ctx, sessionID)
	if err != nil {
		logger.Log.Errorw("failed to look up session", "err", err)
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrNotAuthenticated
	}

	if time.Now().UnixMilli() >= session.ExpiresAt {
		// Lazy cleanup of the stale row; the outcome is the same either way.
		if err := svc.writer.Delete(ctx, session.SessionID); err != nil {
			logger.Log.Errorw("failed to delete expired session", "err", err)
		}
		return nil, nil, ErrNotAuthenticated
	}

	return user, session, nil
}

// Invalidate deletes the session if it exists. Invalidating an absent or
// already-invalid session is not an error.
func (svc *SessionService) Invalidate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return svc.writer.Delete(ctx, sessionID)
}

// Blank returns a cookie that instructs the client to clear any stored
// session credential.
func (svc *SessionService) Blank() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
