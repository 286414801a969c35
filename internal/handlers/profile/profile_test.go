package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/service/profileservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*ProfileHandler, *MockService, *MockTokenChecker) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	tokenChecker := NewMockTokenChecker(ctrl)
	handler := New(service, tokenChecker)
	defer ctrl.Finish()
	return handler, service, tokenChecker
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, 1)
}

func TestGetProfileHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Profile returned",
			prepareMock: func() {
				service.EXPECT().
					GetProfile(authedCtx(), 1).
					Return(&domain.User{ID: 1, Username: "musicfan", Theme: "dark"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "User not found",
			prepareMock: func() {
				service.EXPECT().GetProfile(authedCtx(), 1).Return(nil, profileservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().GetProfile(authedCtx(), 1).Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/profile", nil).WithContext(authedCtx())
			w := httptest.NewRecorder()

			handler.GetProfile(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.ProfileResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "musicfan", resp.Username)
			}
		})
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	t.Run("Fields forwarded", func(t *testing.T) {
		service.EXPECT().
			UpdateProfile(authedCtx(), 1, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int, update profileservice.ProfileUpdate) (*domain.User, error) {
				assert.Equal(t, "New Name", *update.DisplayName)
				assert.Nil(t, update.Bio)
				return &domain.User{ID: 1, DisplayName: "New Name"}, nil
			})

		body := bytes.NewBufferString(`{"display_name":"New Name"}`)
		r := httptest.NewRequest(http.MethodPatch, "/profile", body).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.UpdateProfile(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewBufferString(`{`)).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.UpdateProfile(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("User not found", func(t *testing.T) {
		service.EXPECT().
			UpdateProfile(authedCtx(), 1, gomock.Any()).
			Return(nil, profileservice.ErrUserNotFound)

		r := httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewBufferString(`{}`)).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.UpdateProfile(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetSettingsHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	t.Run("Settings returned", func(t *testing.T) {
		service.EXPECT().
			GetSettings(authedCtx(), 1).
			Return(&domain.Settings{UserID: 1, Theme: "dark", MusicService: "yandex"}, nil)

		r := httptest.NewRequest(http.MethodGet, "/profile/settings", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetSettings(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.SettingsResponseDTO
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "yandex", resp.MusicService)
	})

	t.Run("Internal server error", func(t *testing.T) {
		service.EXPECT().GetSettings(authedCtx(), 1).Return(nil, errors.New("error"))

		r := httptest.NewRequest(http.MethodGet, "/profile/settings", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetSettings(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUpdateSettingsHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	t.Run("Patch applied over stored settings", func(t *testing.T) {
		stored := &domain.Settings{UserID: 1, Theme: "dark", AutoPlay: true}
		service.EXPECT().GetSettings(authedCtx(), 1).Return(stored, nil)
		service.EXPECT().
			UpdateSettings(authedCtx(), gomock.Any()).
			DoAndReturn(func(_ context.Context, settings *domain.Settings) (*domain.Settings, error) {
				assert.Equal(t, "light", settings.Theme)
				assert.True(t, settings.AutoPlay)
				return settings, nil
			})

		body := bytes.NewBufferString(`{"theme":"light"}`)
		r := httptest.NewRequest(http.MethodPatch, "/profile/settings", body).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.UpdateSettings(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown music service rejected", func(t *testing.T) {
		body := bytes.NewBufferString(`{"music_service":"spotify"}`)
		r := httptest.NewRequest(http.MethodPatch, "/profile/settings", body).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.UpdateSettings(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/profile/settings", bytes.NewBufferString(`{`)).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.UpdateSettings(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStatisticsHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	t.Run("Statistics returned", func(t *testing.T) {
		service.EXPECT().
			GetStatistics(authedCtx(), 1).
			Return(&domain.Statistics{UserID: 1, TracksListened: 15, Level: 2, XP: 340}, nil)

		r := httptest.NewRequest(http.MethodGet, "/profile/statistics", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetStatistics(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.StatisticsResponseDTO
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 15, resp.TracksListened)
		assert.Equal(t, 2, resp.Level)
	})

	t.Run("Internal server error", func(t *testing.T) {
		service.EXPECT().GetStatistics(authedCtx(), 1).Return(nil, errors.New("error"))

		r := httptest.NewRequest(http.MethodGet, "/profile/statistics", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetStatistics(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestConnectServiceHandler(t *testing.T) {
	handler, service, tokenChecker := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Service connected",
			body: `{"service":"yandex","token":"ya-token"}`,
			prepareMock: func() {
				tokenChecker.EXPECT().CheckToken(authedCtx(), "yandex", "ya-token").Return(nil)
				service.EXPECT().ConnectMusicService(authedCtx(), 1, "yandex", "ya-token").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Missing token",
			body:         `{"service":"yandex"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Token rejected by provider",
			body: `{"service":"yandex","token":"bad"}`,
			prepareMock: func() {
				tokenChecker.EXPECT().CheckToken(authedCtx(), "yandex", "bad").Return(errors.New("rejected"))
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Unknown service",
			body: `{"service":"spotify","token":"x"}`,
			prepareMock: func() {
				tokenChecker.EXPECT().CheckToken(authedCtx(), "spotify", "x").Return(nil)
				service.EXPECT().ConnectMusicService(authedCtx(), 1, "spotify", "x").
					Return(profileservice.ErrUnknownService)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/profile/music-service", bytes.NewBufferString(tt.body)).WithContext(authedCtx())
			w := httptest.NewRecorder()

			handler.ConnectService(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
