package services

import (
	"context"
	"errors"
	"time"

	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/models"
	"github.com/dkravets/verichat/internal/password"
	"github.com/dkravets/verichat/internal/token"
)

// Error variables
var (
	ErrMissingFields      = errors.New("email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrTokenInvalid       = errors.New("invalid verification token")
	ErrTokenExpired       = errors.New("verification token expired")
)

const (
	minPasswordLength       = 8
	verificationTokenLength = 48
	verificationTokenTTL    = 60 * time.Minute
)

// UserReader defines read operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user models.UserDB) error
	SetVerified(ctx context.Context, userID string) error
}

// VerificationTokenReader defines read operations for verification tokens.
type VerificationTokenReader interface {
	Get(ctx context.Context, token string) (*models.VerificationTokenDB, error)
}

// VerificationTokenWriter defines write operations for verification tokens.
type VerificationTokenWriter interface {
	Save(ctx context.Context, record models.VerificationTokenDB) error
	Delete(ctx context.Context, token string) error
}

// VerificationSender dispatches the verification email.
type VerificationSender interface {
	SendVerification(to, verificationToken string) error
}

// AuthService implements the account lifecycle:
// Unregistered -> PendingVerification -> Verified.
type AuthService struct {
	users       UserReader
	userWriter  UserWriter
	tokens      VerificationTokenReader
	tokenWriter VerificationTokenWriter
	sender      VerificationSender
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	users UserReader,
	userWriter UserWriter,
	tokens VerificationTokenReader,
	tokenWriter VerificationTokenWriter,
	sender VerificationSender,
) *AuthService {
	return &AuthService{
		users:       users,
		userWriter:  userWriter,
		tokens:      tokens,
		tokenWriter: tokenWriter,
		sender:      sender,
	}
}

// Register creates an unverified user, issues a verification token and
// dispatches the verification email. The user and token writes are
// independent statements and are not rolled back if dispatch fails; the
// error still surfaces to the caller.
func (svc *AuthService) Register(ctx context.Context, email, pass string) error {
	if email == "" || pass == "" {
		return ErrMissingFields
	}
	if len(pass) < minPasswordLength {
		return ErrPasswordTooShort
	}

	existing, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check email", "err", err)
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hashed, err := password.Hash(pass)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	userID, err := token.NewUserID()
	if err != nil {
		logger.Log.Errorw("failed to generate user id", "err", err)
		return err
	}

	user := models.UserDB{
		UserID:       userID,
		Email:        email,
		PasswordHash: hashed,
		Verified:     false,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := svc.userWriter.Save(ctx, user); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	verificationToken, err := token.Random(verificationTokenLength)
	if err != nil {
		logger.Log.Errorw("failed to generate verification token", "err", err)
		return err
	}

	record := models.VerificationTokenDB{
		Token:     verificationToken,
		UserID:    userID,
		ExpiresAt: time.Now().Add(verificationTokenTTL).UnixMilli(),
	}
	if err := svc.tokenWriter.Save(ctx, record); err != nil {
		logger.Log.Errorw("failed to save verification token", "err", err)
		return err
	}

	if err := svc.sender.SendVerification(email, verificationToken); err != nil {
		logger.Log.Errorw("failed to send verification email", "email", email, "err", err)
		return err
	}

	return nil
}

// VerifyEmail consumes a verification token. A valid token marks the user
// verified and is deleted in the same call, so it can never verify twice.
// An expired token is deleted and reported as expired; an unknown token
// causes no state change.
func (svc *AuthService) VerifyEmail(ctx context.Context, verificationToken string) (string, error) {
	record, err := svc.tokens.Get(ctx, verificationToken)
	if err != nil {
		logger.Log.Errorw("failed to look up verification token", "err", err)
		return "", err
	}
	if record == nil {
		return "", ErrTokenInvalid
	}

	if time.Now().UnixMilli() >= record.ExpiresAt {
		if err := svc.tokenWriter.Delete(ctx, verificationToken); err != nil {
			logger.Log.Errorw("failed to delete expired verification token", "err", err)
		}
		return "", ErrTokenExpired
	}

	if err := svc.userWriter.SetVerified(ctx, record.UserID); err != nil {
		logger.Log.Errorw("failed to mark user verified", "err", err)
		return "", err
	}

	if err := svc.tokenWriter.Delete(ctx, verificationToken); err != nil {
		logger.Log.Errorw("failed to consume verification token", "err", err)
		return "", err
	}

	return record.UserID, nil
}

// Login authenticates a user and returns the user identifier. Unknown
// emails and wrong passwords are indistinguishable; a pending verification
// is deliberately reported as its own error.
func (svc *AuthService) Login(ctx context.Context, email, pass string) (string, error) {
	user, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if !user.Verified {
		return "", ErrEmailNotVerified
	}

	if !password.Verify(user.PasswordHash, pass) {
		return "", ErrInvalidCredentials
	}

	return user.UserID, nil
}
