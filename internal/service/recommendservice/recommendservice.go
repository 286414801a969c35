package recommendservice

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/itired/itired/internal/cache"
	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/music"
	"go.uber.org/zap"
)

//go:generate mockgen -source=recommendservice.go -destination=recommendservice_mock.go -package=recommendservice

const (
	cacheTTL      = 30 * time.Minute
	historyDepth  = 20
	maxResults    = 8
	perSourceSize = 2
	likedSample   = 3
)

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
}

type HistoryRepo interface {
	ListByUser(ctx context.Context, userID, limit int) ([]domain.HistoryEntry, error)
}

// Recommendation is a track annotated with the source that produced it.
type Recommendation struct {
	music.Track
	Source string `json:"source"`
}

type Service struct {
	registry    *music.Registry
	userRepo    UserRepo
	historyRepo HistoryRepo
	store       cache.Store
}

func New(registry *music.Registry, userRepo UserRepo, historyRepo HistoryRepo, store cache.Store) *Service {
	return &Service{
		registry:    registry,
		userRepo:    userRepo,
		historyRepo: historyRepo,
		store:       store,
	}
}

// Get returns up to 8 recommendations for the user, cached per
// (user, service) for 30 minutes.
func (s *Service) Get(ctx context.Context, userID int, service string) ([]Recommendation, error) {
	cacheKey := fmt.Sprintf("recommendations:%d:%s", userID, service)
	if cached, err := s.store.Get(ctx, cacheKey); err == nil && cached != nil {
		var recs []Recommendation
		if err := json.Unmarshal(cached, &recs); err == nil {
			return recs, nil
		}
	}

	recs, err := s.build(ctx, userID, service)
	if err != nil {
		return nil, err
	}

	if len(recs) > 0 {
		if payload, err := json.Marshal(recs); err == nil {
			if err := s.store.Set(ctx, cacheKey, payload, cacheTTL); err != nil {
				zap.L().Warn("can't cache recommendations", zap.Error(err))
			}
		}
	}
	return recs, nil
}

func (s *Service) build(ctx context.Context, userID int, service string) ([]Recommendation, error) {
	client, err := s.registry.Client(service)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	var token string
	switch service {
	case domain.ServiceYandex:
		token = user.YandexToken
	case domain.ServiceVK:
		token = user.VKToken
	}
	if token == "" {
		return nil, music.ErrNoToken
	}

	var recs []Recommendation
	if service == domain.ServiceVK {
		tracks, err := client.Recommendations(ctx, token, maxResults)
		if err != nil {
			zap.L().Warn("vk recommendations failed", zap.Error(err))
		}
		recs = annotate(tracks, "vk_recommendations")
	} else {
		recs = append(recs, s.fromHistory(ctx, client, token, userID)...)
		recs = append(recs, s.fromLiked(ctx, client, token)...)
		if len(recs) == 0 {
			recs = s.fallback(ctx, client, token)
		}
	}
	return dedupeAndShuffle(recs), nil
}

// fromHistory searches by the top genres and artists of the user's last
// listens.
func (s *Service) fromHistory(ctx context.Context, client music.Client, token string, userID int) []Recommendation {
	history, err := s.historyRepo.ListByUser(ctx, userID, historyDepth)
	if err != nil || len(history) == 0 {
		return nil
	}

	genres := map[string]int{}
	artists := map[string]int{}
	for _, h := range history {
		if genre, ok := h.TrackData["genre"].(string); ok && genre != "" {
			genres[genre]++
		}
		if raw, ok := h.TrackData["artists"].([]any); ok {
			for _, a := range raw {
				if name, ok := a.(string); ok && name != "" {
					artists[name]++
				}
			}
		}
	}

	var recs []Recommendation
	for _, genre := range topKeys(genres, 2) {
		tracks, err := client.Search(ctx, token, "genre:"+genre, perSourceSize)
		if err != nil {
			continue
		}
		recs = append(recs, annotate(tracks, "history_genre")...)
	}
	for _, artist := range topKeys(artists, 2) {
		tracks, err := client.Search(ctx, token, artist, perSourceSize)
		if err != nil {
			continue
		}
		recs = append(recs, annotate(tracks, "history_artist")...)
	}
	return recs
}

// fromLiked samples a few liked tracks and searches for similar ones.
func (s *Service) fromLiked(ctx context.Context, client music.Client, token string) []Recommendation {
	liked, err := client.Liked(ctx, token, 10)
	if err != nil || len(liked) == 0 {
		return nil
	}

	sampleSize := likedSample
	if len(liked) < sampleSize {
		sampleSize = len(liked)
	}
	rand.Shuffle(len(liked), func(i, j int) { liked[i], liked[j] = liked[j], liked[i] })

	var recs []Recommendation
	for _, track := range liked[:sampleSize] {
		query := track.Title
		if len(track.Artists) > 0 {
			query += " " + track.Artists[0]
		}
		similar, err := client.Search(ctx, token, query, perSourceSize+1)
		if err != nil {
			continue
		}
		for _, candidate := range similar {
			if candidate.ID == track.ID {
				continue
			}
			recs = append(recs, Recommendation{Track: candidate, Source: "liked_similar"})
			if len(recs)%perSourceSize == 0 {
				break
			}
		}
	}
	return recs
}

func (s *Service) fallback(ctx context.Context, client music.Client, token string) []Recommendation {
	var recs []Recommendation
	if tracks, err := client.NewReleases(ctx, token, 3); err == nil {
		recs = append(recs, annotate(tracks, "new_releases")...)
	}
	if tracks, err := client.Chart(ctx, token, 3); err == nil {
		recs = append(recs, annotate(tracks, "chart")...)
	}
	return recs
}

func annotate(tracks []music.Track, source string) []Recommendation {
	recs := make([]Recommendation, 0, len(tracks))
	for _, t := range tracks {
		recs = append(recs, Recommendation{Track: t, Source: source})
	}
	return recs
}

// topKeys returns up to n keys with the highest counts, ties broken by
// name for stable results.
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func dedupeAndShuffle(recs []Recommendation) []Recommendation {
	seen := make(map[string]struct{}, len(recs))
	unique := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		unique = append(unique, rec)
	}
	rand.Shuffle(len(unique), func(i, j int) { unique[i], unique[j] = unique[j], unique[i] })
	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	return unique
}
