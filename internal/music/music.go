package music

import (
	"context"
	"errors"
)

//go:generate mockgen -source=music.go -destination=music_mock.go -package=music

var (
	ErrNoToken       = errors.New("music service token is not configured")
	ErrTrackNotFound = errors.New("track not found")
	ErrRateLimited   = errors.New("music service rate limit")
)

// Track is the normalized track shape shared by both streaming services.
type Track struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	DurationMS int64    `json:"duration"`
	CoverURI   string   `json:"cover_uri,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	Service    string   `json:"service"`
}

type Playlist struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TrackCount int    `json:"track_count"`
	CoverURI   string `json:"cover_uri,omitempty"`
	Service    string `json:"service"`
}

// Stream is what the player needs to start playback.
type Stream struct {
	URL   string `json:"url"`
	Track Track  `json:"track"`
}

// Client abstracts one streaming service. Implementations translate the
// normalized calls into the service's own HTTP API using the caller's
// per-user token.
type Client interface {
	Service() string
	CheckToken(ctx context.Context, token string) error
	Playlists(ctx context.Context, token string) ([]Playlist, error)
	PlaylistTracks(ctx context.Context, token, playlistID string) ([]Track, error)
	Liked(ctx context.Context, token string, limit int) ([]Track, error)
	Stream(ctx context.Context, token, trackID string) (*Stream, error)
	RecentlyPlayed(ctx context.Context, token string, limit int) ([]Track, error)
	Search(ctx context.Context, token, query string, limit int) ([]Track, error)
	NewReleases(ctx context.Context, token string, limit int) ([]Track, error)
	Chart(ctx context.Context, token string, limit int) ([]Track, error)
	Recommendations(ctx context.Context, token string, limit int) ([]Track, error)
}

// Registry resolves a Client by service name.
type Registry struct {
	clients map[string]Client
}

func NewRegistry(clients ...Client) *Registry {
	m := make(map[string]Client, len(clients))
	for _, c := range clients {
		m[c.Service()] = c
	}
	return &Registry{clients: m}
}

var ErrUnknownService = errors.New("unknown music service")

func (r *Registry) Client(service string) (Client, error) {
	c, ok := r.clients[service]
	if !ok {
		return nil, ErrUnknownService
	}
	return c, nil
}
