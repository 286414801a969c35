package profileservice

import (
	"context"
	"errors"

	"github.com/itired/itired/internal/domain"
	"go.uber.org/zap"
)

//go:generate mockgen -source=profileservice.go -destination=profileservice_mock.go -package=profileservice

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	SetMusicToken(ctx context.Context, userID int, service, token string) error
}

type SettingsRepo interface {
	Get(ctx context.Context, userID int) (*domain.Settings, error)
	Create(ctx context.Context, userID int) (*domain.Settings, error)
	Update(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

type StatsRepo interface {
	Get(ctx context.Context, userID int) (*domain.Statistics, error)
	Ensure(ctx context.Context, userID int) error
}

type Service struct {
	userRepo     UserRepo
	settingsRepo SettingsRepo
	statsRepo    StatsRepo
}

func New(userRepo UserRepo, settingsRepo SettingsRepo, statsRepo StatsRepo) *Service {
	return &Service{userRepo: userRepo, settingsRepo: settingsRepo, statsRepo: statsRepo}
}

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUnknownService = errors.New("unknown music service")
)

func (s *Service) GetProfile(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ProfileUpdate holds the editable profile fields. Nil fields keep the
// stored value.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	BannerURL   *string
	Theme       *string
	Language    *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	if update.BannerURL != nil {
		user.BannerURL = *update.BannerURL
	}
	if update.Theme != nil {
		user.Theme = *update.Theme
	}
	if update.Language != nil {
		user.Language = *update.Language
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		zap.L().Error("can't update profile: ", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// GetSettings creates the row on first read so older accounts always
// come back with defaults.
func (s *Service) GetSettings(ctx context.Context, userID int) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		zap.L().Error("can't get settings: ", zap.Error(err))
		return nil, err
	}
	if settings == nil {
		return s.settingsRepo.Create(ctx, userID)
	}
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	updated, err := s.settingsRepo.Update(ctx, settings)
	if err != nil {
		zap.L().Error("can't update settings: ", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) GetStatistics(ctx context.Context, userID int) (*domain.Statistics, error) {
	if err := s.statsRepo.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	return s.statsRepo.Get(ctx, userID)
}

// ConnectMusicService stores the per-service OAuth token. Only the two
// supported services are accepted.
func (s *Service) ConnectMusicService(ctx context.Context, userID int, service, token string) error {
	switch service {
	case domain.ServiceYandex, domain.ServiceVK:
	default:
		return ErrUnknownService
	}
	if err := s.userRepo.SetMusicToken(ctx, userID, service, token); err != nil {
		zap.L().Error("can't store music token: ", zap.Error(err))
		return err
	}
	zap.L().Info("music service connected", zap.Int("userID", userID), zap.String("service", service))
	return nil
}
