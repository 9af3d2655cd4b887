package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkravets/verichat/internal/models"
	"github.com/dkravets/verichat/internal/password"
	"github.com/dkravets/verichat/internal/services"
)

func newAuthService(ctrl *gomock.Controller) (
	*services.AuthService,
	*services.MockUserReader,
	*services.MockUserWriter,
	*services.MockVerificationTokenReader,
	*services.MockVerificationTokenWriter,
	*services.MockVerificationSender,
) {
	users := services.NewMockUserReader(ctrl)
	userWriter := services.NewMockUserWriter(ctrl)
	tokens := services.NewMockVerificationTokenReader(ctrl)
	tokenWriter := services.NewMockVerificationTokenWriter(ctrl)
	sender := services.NewMockVerificationSender(ctrl)

	svc := services.NewAuthService(users, userWriter, tokens, tokenWriter, sender)
	return svc, users, userWriter, tokens, tokenWriter, sender
}

func TestAuthService_Register_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _, _, _ := newAuthService(ctrl)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"missing email", "", "longpassword", services.ErrMissingFields},
		{"missing password", "a@x.com", "", services.ErrMissingFields},
		{"short password", "a@x.com", "short", services.ErrPasswordTooShort},
		{"seven chars", "a@x.com", "1234567", services.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _, _, _ := newAuthService(ctrl)

	users.EXPECT().
		GetByEmail(gomock.Any(), "a@x.com").
		Return(&models.UserDB{UserID: "u1", Email: "a@x.com"}, nil)

	// A conflicting registration fails regardless of the password used.
	err := svc.Register(context.Background(), "a@x.com", "differentpassword")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestAuthService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, userWriter, _, tokenWriter, sender := newAuthService(ctrl)

	users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(nil, nil)

	var savedUser models.UserDB
	userWriter.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user models.UserDB) error {
			savedUser = user
			return nil
		})

	var savedToken models.VerificationTokenDB
	tokenWriter.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record models.VerificationTokenDB) error {
			savedToken = record
			return nil
		})

	sender.EXPECT().
		SendVerification("a@x.com", gomock.Any()).
		DoAndReturn(func(_, verificationToken string) error {
			assert.Equal(t, savedToken.Token, verificationToken, "the emailed token must be the persisted one")
			return nil
		})

	before := time.Now().UnixMilli()
	err := svc.Register(context.Background(), "a@x.com", "longpassword")
	assert.NoError(t, err)

	assert.Equal(t, "a@x.com", savedUser.Email)
	assert.False(t, savedUser.Verified, "new accounts start unverified")
	assert.True(t, password.Verify(savedUser.PasswordHash, "longpassword"))
	assert.GreaterOrEqual(t, savedUser.CreatedAt, before)

	assert.Equal(t, savedUser.UserID, savedToken.UserID)
	assert.Len(t, savedToken.Token, 48)
	// 60-minute expiry, with some slack for the test itself
	assert.InDelta(t, before+time.Hour.Milliseconds(), savedToken.ExpiresAt, float64(5*time.Second.Milliseconds()))
}

func TestAuthService_Register_DispatchFailureKeepsRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, userWriter, _, tokenWriter, sender := newAuthService(ctrl)

	dispatchErr := errors.New("smtp unavailable")

	users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(nil, nil)
	// Both writes complete before dispatch is attempted; nothing is rolled back.
	userWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	tokenWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	sender.EXPECT().SendVerification("a@x.com", gomock.Any()).Return(dispatchErr)

	err := svc.Register(context.Background(), "a@x.com", "longpassword")
	assert.ErrorIs(t, err, dispatchErr)
}

func TestAuthService_Register_ReaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _, _, _ := newAuthService(ctrl)

	dbErr := errors.New("db error")
	users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(nil, dbErr)

	err := svc.Register(context.Background(), "a@x.com", "longpassword")
	assert.ErrorIs(t, err, dbErr)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now().UnixMilli()

	tests := []struct {
		name      string
		token     string
		mockSetup func(tokens *services.MockVerificationTokenReader, tokenWriter *services.MockVerificationTokenWriter, userWriter *services.MockUserWriter)
		wantUser  string
		wantErr   error
	}{
		{
			name:  "unknown token",
			token: "missing",
			mockSetup: func(tokens *services.MockVerificationTokenReader, _ *services.MockVerificationTokenWriter, _ *services.MockUserWriter) {
				tokens.EXPECT().Get(gomock.Any(), "missing").Return(nil, nil)
			},
			wantErr: services.ErrTokenInvalid,
		},
		{
			name:  "expired token is deleted",
			token: "stale",
			mockSetup: func(tokens *services.MockVerificationTokenReader, tokenWriter *services.MockVerificationTokenWriter, _ *services.MockUserWriter) {
				tokens.EXPECT().Get(gomock.Any(), "stale").Return(&models.VerificationTokenDB{
					Token:     "stale",
					UserID:    "u1",
					ExpiresAt: now - 1000,
				}, nil)
				tokenWriter.EXPECT().Delete(gomock.Any(), "stale").Return(nil)
			},
			wantErr: services.ErrTokenExpired,
		},
		{
			name:  "valid token verifies and is consumed",
			token: "fresh",
			mockSetup: func(tokens *services.MockVerificationTokenReader, tokenWriter *services.MockVerificationTokenWriter, userWriter *services.MockUserWriter) {
				tokens.EXPECT().Get(gomock.Any(), "fresh").Return(&models.VerificationTokenDB{
					Token:     "fresh",
					UserID:    "u1",
					ExpiresAt: now + time.Hour.Milliseconds(),
				}, nil)
				userWriter.EXPECT().SetVerified(gomock.Any(), "u1").Return(nil)
				tokenWriter.EXPECT().Delete(gomock.Any(), "fresh").Return(nil)
			},
			wantUser: "u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, userWriter, tokens, tokenWriter, _ := newAuthService(ctrl)
			tt.mockSetup(tokens, tokenWriter, userWriter)

			userID, err := svc.VerifyEmail(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, userID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUser, userID)
			}
		})
	}
}

func TestAuthService_VerifyEmail_SecondUseFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, userWriter, tokens, tokenWriter, _ := newAuthService(ctrl)

	record := &models.VerificationTokenDB{
		Token:     "once",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}

	gomock.InOrder(
		tokens.EXPECT().Get(gomock.Any(), "once").Return(record, nil),
		userWriter.EXPECT().SetVerified(gomock.Any(), "u1").Return(nil),
		tokenWriter.EXPECT().Delete(gomock.Any(), "once").Return(nil),
		// The consumed token no longer exists on the second lookup.
		tokens.EXPECT().Get(gomock.Any(), "once").Return(nil, nil),
	)

	userID, err := svc.VerifyEmail(context.Background(), "once")
	assert.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = svc.VerifyEmail(context.Background(), "once")
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hashed, err := password.Hash("longpassword")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		user     *models.UserDB
		wantErr  error
		wantUser string
	}{
		{
			name:     "unknown email is generic",
			email:    "nobody@x.com",
			password: "longpassword",
			user:     nil,
			wantErr:  services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password is generic",
			email:    "a@x.com",
			password: "wrongpassword",
			user:     &models.UserDB{UserID: "u1", Email: "a@x.com", PasswordHash: hashed, Verified: true},
			wantErr:  services.ErrInvalidCredentials,
		},
		{
			name:     "unverified is disclosed even with the right password",
			email:    "a@x.com",
			password: "longpassword",
			user:     &models.UserDB{UserID: "u1", Email: "a@x.com", PasswordHash: hashed, Verified: false},
			wantErr:  services.ErrEmailNotVerified,
		},
		{
			name:     "success",
			email:    "a@x.com",
			password: "longpassword",
			user:     &models.UserDB{UserID: "u1", Email: "a@x.com", PasswordHash: hashed, Verified: true},
			wantUser: "u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, _, _, _ := newAuthService(ctrl)
			users.EXPECT().GetByEmail(gomock.Any(), tt.email).Return(tt.user, nil)

			userID, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, userID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUser, userID)
			}
		})
	}
}

func TestAuthService_Login_ReaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _, _, _ := newAuthService(ctrl)

	dbErr := errors.New("db error")
	users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(nil, dbErr)

	_, err := svc.Login(context.Background(), "a@x.com", "longpassword")
	assert.ErrorIs(t, err, dbErr)
}
