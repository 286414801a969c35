package musicservice

import (
	"context"
	"errors"
	"time"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/music"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=musicservice.go -destination=musicservice_mock.go -package=musicservice

const (
	listenReward = 1
	likedLimit   = 50
	historyLimit = 50
)

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
}

type SettingsRepo interface {
	Get(ctx context.Context, userID int) (*domain.Settings, error)
}

type HistoryRepo interface {
	Insert(ctx context.Context, entry *domain.HistoryEntry) error
	ListByUser(ctx context.Context, userID, limit int) ([]domain.HistoryEntry, error)
	ExistsSince(ctx context.Context, userID int, trackID string, since time.Time) (bool, error)
}

type StatsRepo interface {
	Ensure(ctx context.Context, userID int) error
	AddListening(ctx context.Context, userID, tracks, minutes int) error
}

type WalletService interface {
	Adjust(ctx context.Context, userID int, amount int64, reason string, metadata map[string]any) (*domain.Wallet, error)
}

type Service struct {
	registry    *music.Registry
	userRepo    UserRepo
	settings    SettingsRepo
	historyRepo HistoryRepo
	statsRepo   StatsRepo
	wallet      WalletService
	txManager   pg.TXManager

	now func() time.Time
}

func New(registry *music.Registry, userRepo UserRepo, settings SettingsRepo, historyRepo HistoryRepo, statsRepo StatsRepo, wallet WalletService, txManager pg.TXManager) *Service {
	return &Service{
		registry:    registry,
		userRepo:    userRepo,
		settings:    settings,
		historyRepo: historyRepo,
		statsRepo:   statsRepo,
		wallet:      wallet,
		txManager:   txManager,
		now:         time.Now,
	}
}

var ErrUserNotFound = errors.New("user not found")

// clientFor picks the user's preferred service (falling back to yandex)
// and the matching token.
func (s *Service) clientFor(ctx context.Context, userID int, service string) (music.Client, string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	if service == "" {
		service = domain.ServiceYandex
		if settings, err := s.settings.Get(ctx, userID); err == nil && settings != nil && settings.MusicService != "" {
			service = settings.MusicService
		}
	}

	client, err := s.registry.Client(service)
	if err != nil {
		return nil, "", err
	}

	var token string
	switch service {
	case domain.ServiceYandex:
		token = user.YandexToken
	case domain.ServiceVK:
		token = user.VKToken
	}
	if token == "" {
		return nil, "", music.ErrNoToken
	}
	return client, token, nil
}

func (s *Service) Playlists(ctx context.Context, userID int) ([]music.Playlist, error) {
	client, token, err := s.clientFor(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return client.Playlists(ctx, token)
}

func (s *Service) PlaylistTracks(ctx context.Context, userID int, service, playlistID string) ([]music.Track, error) {
	client, token, err := s.clientFor(ctx, userID, service)
	if err != nil {
		return nil, err
	}
	return client.PlaylistTracks(ctx, token, playlistID)
}

func (s *Service) Liked(ctx context.Context, userID int) ([]music.Track, error) {
	client, token, err := s.clientFor(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return client.Liked(ctx, token, likedLimit)
}

// Play resolves the stream URL, records the listen and awards the
// listening bonus at most once per track per UTC day.
func (s *Service) Play(ctx context.Context, userID int, service, trackID string) (*music.Stream, error) {
	client, token, err := s.clientFor(ctx, userID, service)
	if err != nil {
		return nil, err
	}

	stream, err := client.Stream(ctx, token, trackID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	playedToday, err := s.historyRepo.ExistsSince(ctx, userID, stream.Track.ID, dayStart)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		entry := &domain.HistoryEntry{
			UserID:  userID,
			TrackID: stream.Track.ID,
			Service: client.Service(),
			TrackData: map[string]any{
				"title":    stream.Track.Title,
				"artists":  stream.Track.Artists,
				"duration": stream.Track.DurationMS,
				"service":  stream.Track.Service,
			},
			DurationMS: int(stream.Track.DurationMS),
			PlayedAt:   now,
		}
		if err := s.historyRepo.Insert(ctx, entry); err != nil {
			return err
		}

		if err := s.statsRepo.Ensure(ctx, userID); err != nil {
			return err
		}
		minutes := int(stream.Track.DurationMS / 60000)
		if err := s.statsRepo.AddListening(ctx, userID, 1, minutes); err != nil {
			return err
		}

		if !playedToday {
			_, err := s.wallet.Adjust(ctx, userID, listenReward, domain.ReasonListeningReward, map[string]any{
				"track_id": stream.Track.ID,
				"service":  client.Service(),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("can't record listen: ", zap.Error(err))
		return nil, err
	}
	return stream, nil
}

func (s *Service) History(ctx context.Context, userID int) ([]domain.HistoryEntry, error) {
	return s.historyRepo.ListByUser(ctx, userID, historyLimit)
}

// CheckToken verifies a candidate token against the external service
// before it is stored.
func (s *Service) CheckToken(ctx context.Context, service, token string) error {
	client, err := s.registry.Client(service)
	if err != nil {
		return err
	}
	return client.CheckToken(ctx, token)
}
