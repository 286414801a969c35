package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/service/profileservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*TelegramHandler, *MockService, *MockProfileService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	profileService := NewMockProfileService(ctrl)
	handler := New(service, profileService)
	defer ctrl.Finish()
	return handler, service, profileService
}

func TestIssueLinkCodeHandler(t *testing.T) {
	handler, service, _ := NewMock(t)
	expires := time.Now().UTC().Add(10 * time.Minute).Truncate(time.Second)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Code issued",
			prepareMock: func() {
				service.EXPECT().
					IssueLinkCode(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(&domain.LinkCode{Code: "abc-123", ExpiresAt: expires}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().
					IssueLinkCode(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/telegram/link-code", nil)
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
			w := httptest.NewRecorder()

			handler.IssueLinkCode(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.LinkCodeResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "abc-123", resp.Code)
				assert.Equal(t, expires, resp.ExpiresAt.UTC())
			}
		})
	}
}

func TestGetStatusHandler(t *testing.T) {
	handler, _, profileService := NewMock(t)
	tgID := int64(777)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody dto.TelegramStatusResponseDTO
	}{
		{
			name: "Account linked",
			prepareMock: func() {
				profileService.EXPECT().
					GetProfile(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(&domain.User{ID: 1, TelegramID: &tgID, TelegramUsername: "musicfan_tg"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: dto.TelegramStatusResponseDTO{Linked: true, TelegramUsername: "musicfan_tg"},
		},
		{
			name: "Account not linked",
			prepareMock: func() {
				profileService.EXPECT().
					GetProfile(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(&domain.User{ID: 1}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: dto.TelegramStatusResponseDTO{Linked: false},
		},
		{
			name: "User not found",
			prepareMock: func() {
				profileService.EXPECT().
					GetProfile(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(nil, profileservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				profileService.EXPECT().
					GetProfile(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/telegram/status", nil)
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
			w := httptest.NewRecorder()

			handler.GetStatus(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.TelegramStatusResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedBody, resp)
			}
		})
	}
}
