package authservice

import (
	"context"
	"errors"
	"testing"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"github.com/itired/itired/pkg/auth"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type mocks struct {
	repo     *MockRepo
	wallet   *MockWalletService
	settings *MockSettingsRepo
	stats    *MockStatsRepo
	tx       *pg.MockTXManager
	hash     *auth.MockHashServiceInterface
	jwt      *auth.MockJWTServiceInterface
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks{
		repo:     NewMockRepo(ctrl),
		wallet:   NewMockWalletService(ctrl),
		settings: NewMockSettingsRepo(ctrl),
		stats:    NewMockStatsRepo(ctrl),
		tx:       pg.NewMockTXManager(ctrl),
		hash:     auth.NewMockHashServiceInterface(ctrl),
		jwt:      auth.NewMockJWTServiceInterface(ctrl),
	}
	service := New(m.repo, m.wallet, m.settings, m.stats, m.tx, m.hash, m.jwt)

	return service, m
}

func passthroughTx(tx *pg.MockTXManager) {
	tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		prepareMock func(m mocks)
		expectedErr error
	}{
		{
			name: "Registration seeds settings, statistics and welcome bonus",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByUsername(gomock.Any(), "musicfan").Return(nil, nil)
				m.hash.EXPECT().HashPassword("password123").Return("hashed", nil)
				passthroughTx(m.tx)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.Equal(t, "hashed", user.PasswordHash)
						user.ID = 1
						return user, nil
					})
				m.settings.EXPECT().Create(gomock.Any(), 1).Return(&domain.Settings{UserID: 1}, nil)
				m.stats.EXPECT().Ensure(gomock.Any(), 1).Return(nil)
				m.wallet.EXPECT().Adjust(gomock.Any(), 1, int64(welcomeBonus), domain.ReasonRegistrationBonus, nil).
					Return(&domain.Wallet{Balance: welcomeBonus}, nil)
			},
		},
		{
			name: "Taken username is rejected",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByUsername(gomock.Any(), "musicfan").
					Return(&domain.User{ID: 2, Username: "musicfan"}, nil)
			},
			expectedErr: ErrUsernameTaken,
		},
		{
			name: "Welcome bonus failure rolls the account back",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByUsername(gomock.Any(), "musicfan").Return(nil, nil)
				m.hash.EXPECT().HashPassword("password123").Return("hashed", nil)
				passthroughTx(m.tx)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
						user.ID = 1
						return user, nil
					})
				m.settings.EXPECT().Create(gomock.Any(), 1).Return(&domain.Settings{UserID: 1}, nil)
				m.stats.EXPECT().Ensure(gomock.Any(), 1).Return(nil)
				m.wallet.EXPECT().Adjust(gomock.Any(), 1, int64(welcomeBonus), domain.ReasonRegistrationBonus, nil).
					Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			user, err := service.Register(ctx, "musicfan", "fan@example.com", "password123")

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "musicfan", user.Username)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		prepareMock func(m mocks)
		expectedErr error
	}{
		{
			name: "Valid credentials",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByUsername(gomock.Any(), "musicfan").
					Return(&domain.User{ID: 1, Username: "musicfan", PasswordHash: "hashed"}, nil)
				m.hash.EXPECT().ComparePassword("hashed", "password123").Return(true)
				m.stats.EXPECT().IncLogins(gomock.Any(), 1).Return(nil)
				m.repo.EXPECT().TouchLastActive(gomock.Any(), 1).Return(nil)
			},
		},
		{
			name: "Unknown user",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByUsername(gomock.Any(), "musicfan").Return(nil, nil)
			},
			expectedErr: ErrInvalidCredentials,
		},
		{
			name: "Wrong password",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByUsername(gomock.Any(), "musicfan").
					Return(&domain.User{ID: 1, Username: "musicfan", PasswordHash: "hashed"}, nil)
				m.hash.EXPECT().ComparePassword("hashed", "password123").Return(false)
			},
			expectedErr: ErrInvalidCredentials,
		},
		{
			name: "Login bookkeeping failure does not block",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByUsername(gomock.Any(), "musicfan").
					Return(&domain.User{ID: 1, Username: "musicfan", PasswordHash: "hashed"}, nil)
				m.hash.EXPECT().ComparePassword("hashed", "password123").Return(true)
				m.stats.EXPECT().IncLogins(gomock.Any(), 1).Return(errors.New("database error"))
				m.repo.EXPECT().TouchLastActive(gomock.Any(), 1).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			user, err := service.Authenticate(ctx, "musicfan", "password123")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, user.ID)
			}
		})
	}
}

func TestService_GenerateToken(t *testing.T) {
	t.Run("Token is issued", func(t *testing.T) {
		service, m := NewMock(t)
		m.jwt.EXPECT().GenerateJWT(1, gomock.Any()).Return("token", nil)

		token, err := service.GenerateToken(1)
		assert.NoError(t, err)
		assert.Equal(t, "token", token)
	})

	t.Run("Signing failure", func(t *testing.T) {
		service, m := NewMock(t)
		m.jwt.EXPECT().GenerateJWT(1, gomock.Any()).Return("", errors.New("signing error"))

		_, err := service.GenerateToken(1)
		assert.Error(t, err)
	})
}
