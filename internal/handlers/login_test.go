package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkravets/verichat/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionCookie := &http.Cookie{Name: services.CookieName, Value: "sess123", Path: "/"}

	tests := []struct {
		name         string
		email        string
		password     string
		mockSetup    func(svc *MockLoginer, sessions *MockSessionCreator)
		expectedCode int
		expectedBody map[string]any
		expectCookie bool
		rawBody      bool
	}{
		{
			name:     "success sets session cookie",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(svc *MockLoginer, sessions *MockSessionCreator) {
				svc.EXPECT().Login(gomock.Any(), "a@x.com", "longpassword").Return("u1", nil)
				sessions.EXPECT().Create(gomock.Any(), "u1").Return(sessionCookie, nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{"ok": true, "message": "Logged in"},
			expectCookie: true,
		},
		{
			name:     "invalid credentials are generic",
			email:    "a@x.com",
			password: "wrongpassword",
			mockSetup: func(svc *MockLoginer, _ *MockSessionCreator) {
				svc.EXPECT().Login(gomock.Any(), "a@x.com", "wrongpassword").
					Return("", services.ErrInvalidCredentials)
			},
			expectedCode: 401,
			expectedBody: map[string]any{"ok": false, "error": "Invalid email or password"},
		},
		{
			name:     "unverified email is disclosed",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(svc *MockLoginer, _ *MockSessionCreator) {
				svc.EXPECT().Login(gomock.Any(), "a@x.com", "longpassword").
					Return("", services.ErrEmailNotVerified)
			},
			expectedCode: 401,
			expectedBody: map[string]any{"ok": false, "error": "Please verify your email first"},
		},
		{
			name:     "service failure",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(svc *MockLoginer, _ *MockSessionCreator) {
				svc.EXPECT().Login(gomock.Any(), "a@x.com", "longpassword").
					Return("", errors.New("db error"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{"ok": false, "error": "Internal server error"},
		},
		{
			name:     "session creation failure",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(svc *MockLoginer, sessions *MockSessionCreator) {
				svc.EXPECT().Login(gomock.Any(), "a@x.com", "longpassword").Return("u1", nil)
				sessions.EXPECT().Create(gomock.Any(), "u1").Return(nil, errors.New("db error"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{"ok": false, "error": "Internal server error"},
		},
		{
			name:         "invalid json",
			rawBody:      true,
			expectedCode: 400,
			expectedBody: map[string]any{"ok": false, "error": "Invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			mockSessions := NewMockSessionCreator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc, mockSessions)
			}

			handler := NewLoginHandler(mockSvc, mockSessions)

			var req *http.Request
			if tt.rawBody {
				req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{invalid json}"))
			} else {
				bodyBytes, _ := json.Marshal(LoginRequest{Email: tt.email, Password: tt.password})
				req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(bodyBytes))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)

			cookies := rr.Result().Cookies()
			if tt.expectCookie {
				assert.Len(t, cookies, 1)
				assert.Equal(t, services.CookieName, cookies[0].Name)
				assert.Equal(t, "sess123", cookies[0].Value)
			} else {
				assert.Empty(t, cookies)
			}
		})
	}
}
