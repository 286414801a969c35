package profileservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itired/itired/internal/domain"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	userRepo     *MockUserRepo
	settingsRepo *MockSettingsRepo
	statsRepo    *MockStatsRepo
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &mocks{
		userRepo:     NewMockUserRepo(ctrl),
		settingsRepo: NewMockSettingsRepo(ctrl),
		statsRepo:    NewMockStatsRepo(ctrl),
	}
	return New(m.userRepo, m.settingsRepo, m.statsRepo), m
}

func strPtr(s string) *string { return &s }

func TestService_GetProfile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		prepareMock func(m *mocks)
		wantErr     error
	}{
		{
			name: "User found",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(&domain.User{ID: 1, Username: "musicfan"}, nil)
			},
		},
		{
			name: "User not found",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(nil, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "Database error",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(nil, errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			user, err := service.GetProfile(ctx, 1)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "musicfan", user.Username)
		})
	}
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Only provided fields change", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().FindByID(ctx, 1).
			Return(&domain.User{ID: 1, DisplayName: "Old Name", Bio: "old bio", Theme: "dark"}, nil)
		m.userRepo.EXPECT().UpdateProfile(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) error {
				assert.Equal(t, "New Name", user.DisplayName)
				assert.Equal(t, "old bio", user.Bio)
				assert.Equal(t, "light", user.Theme)
				return nil
			})

		user, err := service.UpdateProfile(ctx, 1, ProfileUpdate{
			DisplayName: strPtr("New Name"),
			Theme:       strPtr("light"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.DisplayName)
	})

	t.Run("User not found", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(nil, nil)

		_, err := service.UpdateProfile(ctx, 1, ProfileUpdate{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Update fails", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(&domain.User{ID: 1}, nil)
		m.userRepo.EXPECT().UpdateProfile(ctx, gomock.Any()).Return(errors.New("database error"))

		_, err := service.UpdateProfile(ctx, 1, ProfileUpdate{Bio: strPtr("hi")})
		assert.Error(t, err)
	})
}

func TestService_GetSettings(t *testing.T) {
	ctx := context.Background()
	stored := &domain.Settings{ID: 1, UserID: 1, Theme: "dark", UpdatedAt: time.Now()}

	t.Run("Existing settings returned", func(t *testing.T) {
		service, m := NewMock(t)
		m.settingsRepo.EXPECT().Get(ctx, 1).Return(stored, nil)

		settings, err := service.GetSettings(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, stored, settings)
	})

	t.Run("Defaults created on first read", func(t *testing.T) {
		service, m := NewMock(t)
		m.settingsRepo.EXPECT().Get(ctx, 1).Return(nil, nil)
		m.settingsRepo.EXPECT().Create(ctx, 1).Return(stored, nil)

		settings, err := service.GetSettings(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, stored, settings)
	})

	t.Run("Database error", func(t *testing.T) {
		service, m := NewMock(t)
		m.settingsRepo.EXPECT().Get(ctx, 1).Return(nil, errors.New("database error"))

		_, err := service.GetSettings(ctx, 1)
		assert.Error(t, err)
	})
}

func TestService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	settings := &domain.Settings{UserID: 1, Theme: "light"}

	t.Run("Settings updated", func(t *testing.T) {
		service, m := NewMock(t)
		m.settingsRepo.EXPECT().Update(ctx, settings).Return(settings, nil)

		updated, err := service.UpdateSettings(ctx, settings)
		assert.NoError(t, err)
		assert.Equal(t, "light", updated.Theme)
	})

	t.Run("Database error", func(t *testing.T) {
		service, m := NewMock(t)
		m.settingsRepo.EXPECT().Update(ctx, settings).Return(nil, errors.New("database error"))

		_, err := service.UpdateSettings(ctx, settings)
		assert.Error(t, err)
	})
}

func TestService_GetStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("Row ensured before read", func(t *testing.T) {
		service, m := NewMock(t)
		m.statsRepo.EXPECT().Ensure(ctx, 1).Return(nil)
		m.statsRepo.EXPECT().Get(ctx, 1).Return(&domain.Statistics{UserID: 1, Level: 2}, nil)

		stats, err := service.GetStatistics(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 2, stats.Level)
	})

	t.Run("Ensure fails", func(t *testing.T) {
		service, m := NewMock(t)
		m.statsRepo.EXPECT().Ensure(ctx, 1).Return(errors.New("database error"))

		_, err := service.GetStatistics(ctx, 1)
		assert.Error(t, err)
	})
}

func TestService_ConnectMusicService(t *testing.T) {
	ctx := context.Background()

	t.Run("Token stored", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().SetMusicToken(ctx, 1, domain.ServiceYandex, "token-1").Return(nil)

		err := service.ConnectMusicService(ctx, 1, domain.ServiceYandex, "token-1")
		assert.NoError(t, err)
	})

	t.Run("Unknown service rejected", func(t *testing.T) {
		service, _ := NewMock(t)

		err := service.ConnectMusicService(ctx, 1, "spotify", "token-1")
		assert.ErrorIs(t, err, ErrUnknownService)
	})

	t.Run("Database error", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().SetMusicToken(ctx, 1, domain.ServiceVK, "token-1").Return(errors.New("database error"))

		err := service.ConnectMusicService(ctx, 1, domain.ServiceVK, "token-1")
		assert.Error(t, err)
	})
}
