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

	"github.com/dkravets/verichat/internal/email"
	"github.com/dkravets/verichat/internal/services"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		email        string
		password     string
		mockSetup    func(m *MockRegisterer)
		expectedCode int
		expectedBody map[string]any
		rawBody      bool // if true, pass raw body (to simulate invalid JSON)
	}{
		{
			name:     "success",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "a@x.com", "longpassword").
					Return(nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{"ok": true, "message": "Check your email to verify your account"},
		},
		{
			name:     "missing fields",
			email:    "",
			password: "longpassword",
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "", "longpassword").
					Return(services.ErrMissingFields)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"ok": false, "error": "Email and password are required"},
		},
		{
			name:     "short password",
			email:    "a@x.com",
			password: "short",
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "a@x.com", "short").
					Return(services.ErrPasswordTooShort)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"ok": false, "error": "Password must be at least 8 characters"},
		},
		{
			name:     "duplicate email",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "a@x.com", "longpassword").
					Return(services.ErrEmailTaken)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"ok": false, "error": "Email already registered"},
		},
		{
			name:     "email not configured",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "a@x.com", "longpassword").
					Return(email.ErrNotConfigured)
			},
			expectedCode: 500,
			expectedBody: map[string]any{"ok": false, "error": "Email service is not configured"},
		},
		{
			name:     "internal server error",
			email:    "a@x.com",
			password: "longpassword",
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "a@x.com", "longpassword").
					Return(errors.New("database failure"))
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
			mockSvc := NewMockRegisterer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewRegisterHandler(mockSvc)

			var req *http.Request
			if tt.rawBody {
				req = httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString("{invalid json}"))
			} else {
				bodyBytes, _ := json.Marshal(RegisterRequest{
					Email:    tt.email,
					Password: tt.password,
				})
				req = httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBuffer(bodyBytes))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}
