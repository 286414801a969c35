package listening

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/music"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=listening.go -destination=listening_mock.go -package=listening

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
	recentLimit   = 20
)

var syncingUsers sync.Map

type UserRepo interface {
	FindWithService(ctx context.Context, service string, limit int) ([]domain.User, error)
	TouchLastActive(ctx context.Context, userID int) error
}

type HistoryRepo interface {
	Insert(ctx context.Context, entry *domain.HistoryEntry) error
	ExistsSince(ctx context.Context, userID int, trackID string, since time.Time) (bool, error)
}

type StatsRepo interface {
	Ensure(ctx context.Context, userID int) error
	AddListening(ctx context.Context, userID, tracks, minutes int) error
}

// Service periodically pulls recently-played tracks from the connected
// streaming services and folds the missing plays into history and
// statistics.
type Service struct {
	registry       *music.Registry
	userRepo       UserRepo
	historyRepo    HistoryRepo
	statsRepo      StatsRepo
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
}

func New(registry *music.Registry, userRepo UserRepo, historyRepo HistoryRepo, statsRepo StatsRepo) *Service {
	return &Service{
		registry:       registry,
		userRepo:       userRepo,
		historyRepo:    historyRepo,
		statsRepo:      statsRepo,
		limit:          100,
		workerPool:     NewWorkerPool(10),
		updateInterval: time.Minute * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Listening sync service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping service")
			return
		case <-ticker.C:
			s.syncUsers(ctx)
		}
	}
}

func (s *Service) syncUsers(ctx context.Context) {
	for _, service := range []string{domain.ServiceYandex, domain.ServiceVK} {
		users, err := s.userRepo.FindWithService(ctx, service, int(atomic.LoadUint32(&s.limit)))
		if err != nil {
			zap.L().Error("Failed to fetch users for sync", zap.String("service", service), zap.Error(err))
			continue
		}

		var g errgroup.Group
		for _, user := range users {
			user := user
			service := service

			key := fmt.Sprintf("%d:%s", user.ID, service)
			if _, loaded := syncingUsers.LoadOrStore(key, struct{}{}); loaded {
				continue
			}

			g.Go(func() error {
				err := s.workerPool.AddTask(ctx, func() error {
					defer syncingUsers.Delete(key)
					return s.syncUser(ctx, user, service)
				})
				if err != nil {
					syncingUsers.Delete(key)
					return err
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			zap.L().Error("Error syncing users", zap.String("service", service), zap.Error(err))
		}
	}
}

func (s *Service) syncUser(ctx context.Context, user domain.User, service string) error {
	client, err := s.registry.Client(service)
	if err != nil {
		return err
	}

	var token string
	switch service {
	case domain.ServiceYandex:
		token = user.YandexToken
	case domain.ServiceVK:
		token = user.VKToken
	}
	if token == "" {
		return nil
	}

	tracks, err := s.fetchRecent(ctx, client, token, user.ID)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return nil
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	inserted, minutes := 0, 0
	for _, track := range tracks {
		exists, err := s.historyRepo.ExistsSince(ctx, user.ID, track.ID, since)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		entry := &domain.HistoryEntry{
			UserID:  user.ID,
			TrackID: track.ID,
			Service: service,
			TrackData: map[string]any{
				"title":    track.Title,
				"artists":  track.Artists,
				"duration": track.DurationMS,
				"service":  track.Service,
			},
			DurationMS: int(track.DurationMS),
			PlayedAt:   time.Now().UTC(),
		}
		if err := s.historyRepo.Insert(ctx, entry); err != nil {
			return err
		}
		inserted++
		minutes += int(track.DurationMS / 60000)
	}

	if inserted > 0 {
		if err := s.statsRepo.Ensure(ctx, user.ID); err != nil {
			return err
		}
		if err := s.statsRepo.AddListening(ctx, user.ID, inserted, minutes); err != nil {
			return err
		}
		zap.L().Info("Listening history synced",
			zap.Int("userID", user.ID),
			zap.String("service", service),
			zap.Int("tracks", inserted),
		)
	}
	return nil
}

// fetchRecent retries transient failures, backing off harder when the
// service reports a rate limit.
func (s *Service) fetchRecent(ctx context.Context, client music.Client, token string, userID int) ([]music.Track, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tracks, err := client.RecentlyPlayed(ctx, token, recentLimit)
		if err == nil {
			return tracks, nil
		}
		if errors.Is(err, music.ErrNoToken) {
			return nil, nil
		}
		lastErr = err

		retryAfter := retryInterval * time.Duration(attempt)
		if errors.Is(err, music.ErrRateLimited) {
			retryAfter *= 5
			zap.L().Warn("Rate limit detected, retrying",
				zap.Int("userID", userID),
				zap.Int("attempt", attempt),
				zap.Duration("retryAfter", retryAfter),
			)
		}
		if attempt < maxRetries {
			time.Sleep(retryAfter)
		}
	}
	return nil, fmt.Errorf("failed to fetch recent tracks for user %d after %d retries: %w", userID, maxRetries, lastErr)
}

func (s *Service) Close() {
	s.workerPool.Close()
}
