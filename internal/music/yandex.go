package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/pkg/clients"
	"go.uber.org/zap"
)

// YandexClient talks to the Yandex Music HTTP API.
type YandexClient struct {
	baseURL string
	client  clients.HTTPClientI
}

func NewYandexClient(baseURL string, client clients.HTTPClientI) *YandexClient {
	return &YandexClient{baseURL: baseURL, client: client}
}

func (c *YandexClient) Service() string { return domain.ServiceYandex }

type yandexTrack struct {
	ID         json.Number `json:"id"`
	Title      string      `json:"title"`
	DurationMS int64       `json:"durationMs"`
	CoverURI   string      `json:"coverUri"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Albums []struct {
		Genre string `json:"genre"`
	} `json:"albums"`
}

func (t yandexTrack) normalize() Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	track := Track{
		ID:         domain.ServiceYandex + "_" + t.ID.String(),
		Title:      t.Title,
		Artists:    artists,
		DurationMS: t.DurationMS,
		Service:    domain.ServiceYandex,
	}
	if t.CoverURI != "" {
		track.CoverURI = "https://" + coverSize(t.CoverURI, "300x300")
	}
	if len(t.Albums) > 0 {
		track.Genre = t.Albums[0].Genre
	}
	return track
}

func (c *YandexClient) get(ctx context.Context, token, path string, query url.Values, out any) error {
	if token == "" {
		return ErrNoToken
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	headers := http.Header{}
	headers.Set("Authorization", "OAuth "+token)

	statusCode, respBody, _, err := c.client.Get(u, headers)
	if err != nil {
		zap.L().Error("yandex request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	switch statusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrTrackNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrNoToken
	default:
		return fmt.Errorf("yandex: unexpected status %d for %s", statusCode, path)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("yandex: can't parse response: %w", err)
	}
	return json.Unmarshal(envelope.Result, out)
}

func (c *YandexClient) CheckToken(ctx context.Context, token string) error {
	var status struct {
		Account struct {
			UID int64 `json:"uid"`
		} `json:"account"`
	}
	if err := c.get(ctx, token, "/account/status", nil, &status); err != nil {
		return err
	}
	if status.Account.UID == 0 {
		return ErrNoToken
	}
	return nil
}

func (c *YandexClient) Playlists(ctx context.Context, token string) ([]Playlist, error) {
	var raw []struct {
		Kind       int    `json:"kind"`
		Title      string `json:"title"`
		TrackCount int    `json:"trackCount"`
		Collective bool   `json:"collective"`
		Cover      struct {
			URI string `json:"uri"`
		} `json:"cover"`
	}
	if err := c.get(ctx, token, "/users/me/playlists/list", nil, &raw); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(raw))
	for _, p := range raw {
		if p.Collective {
			continue
		}
		pl := Playlist{
			ID:         fmt.Sprintf("%s_%d", domain.ServiceYandex, p.Kind),
			Title:      p.Title,
			TrackCount: p.TrackCount,
			Service:    domain.ServiceYandex,
		}
		if p.Cover.URI != "" {
			pl.CoverURI = "https://" + coverSize(p.Cover.URI, "400x400")
		}
		playlists = append(playlists, pl)
	}
	return playlists, nil
}

func (c *YandexClient) PlaylistTracks(ctx context.Context, token, playlistID string) ([]Track, error) {
	var raw struct {
		Tracks []struct {
			Track yandexTrack `json:"track"`
		} `json:"tracks"`
	}
	if err := c.get(ctx, token, "/users/me/playlists/"+url.PathEscape(playlistID), nil, &raw); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(raw.Tracks))
	for _, t := range raw.Tracks {
		tracks = append(tracks, t.Track.normalize())
	}
	return tracks, nil
}

func (c *YandexClient) Liked(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw struct {
		Library struct {
			Tracks []yandexTrack `json:"tracks"`
		} `json:"library"`
	}
	if err := c.get(ctx, token, "/users/me/likes/tracks", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeYandex(raw.Library.Tracks, limit), nil
}

func (c *YandexClient) Stream(ctx context.Context, token, trackID string) (*Stream, error) {
	var tracks []yandexTrack
	query := url.Values{"track-ids": {trackID}}
	if err := c.get(ctx, token, "/tracks", query, &tracks); err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrTrackNotFound
	}

	var infos []struct {
		BitrateInKbps int    `json:"bitrateInKbps"`
		DirectLink    string `json:"directLink"`
	}
	if err := c.get(ctx, token, "/tracks/"+url.PathEscape(trackID)+"/download-info", nil, &infos); err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrTrackNotFound
	}

	best := infos[0]
	for _, info := range infos[1:] {
		if info.BitrateInKbps > best.BitrateInKbps {
			best = info
		}
	}
	return &Stream{URL: best.DirectLink, Track: tracks[0].normalize()}, nil
}

func (c *YandexClient) RecentlyPlayed(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw struct {
		Tracks []yandexTrack `json:"tracks"`
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, token, "/users/me/history", query, &raw); err != nil {
		return nil, err
	}
	return normalizeYandex(raw.Tracks, limit), nil
}

func (c *YandexClient) Search(ctx context.Context, token, query string, limit int) ([]Track, error) {
	var raw struct {
		Tracks struct {
			Results []yandexTrack `json:"results"`
		} `json:"tracks"`
	}
	params := url.Values{"text": {query}, "type": {"track"}}
	if err := c.get(ctx, token, "/search", params, &raw); err != nil {
		return nil, err
	}
	return normalizeYandex(raw.Tracks.Results, limit), nil
}

func (c *YandexClient) NewReleases(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw struct {
		Tracks []yandexTrack `json:"tracks"`
	}
	if err := c.get(ctx, token, "/landing3/new-releases", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeYandex(raw.Tracks, limit), nil
}

func (c *YandexClient) Chart(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw struct {
		Chart struct {
			Tracks []struct {
				Track yandexTrack `json:"track"`
			} `json:"tracks"`
		} `json:"chart"`
	}
	if err := c.get(ctx, token, "/landing3/chart/world", nil, &raw); err != nil {
		return nil, err
	}
	tracks := make([]Track, 0, len(raw.Chart.Tracks))
	for _, t := range raw.Chart.Tracks {
		if limit > 0 && len(tracks) >= limit {
			break
		}
		tracks = append(tracks, t.Track.normalize())
	}
	return tracks, nil
}

// Recommendations for Yandex are assembled by the recommendation service
// from history and likes, so the direct call just proxies the chart.
func (c *YandexClient) Recommendations(ctx context.Context, token string, limit int) ([]Track, error) {
	return c.Chart(ctx, token, limit)
}

func normalizeYandex(raw []yandexTrack, limit int) []Track {
	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		if limit > 0 && len(tracks) >= limit {
			break
		}
		tracks = append(tracks, t.normalize())
	}
	return tracks
}

// coverSize substitutes the size placeholder in a Yandex cover URI.
func coverSize(uri, size string) string {
	out := make([]byte, 0, len(uri)+len(size))
	for i := 0; i < len(uri); i++ {
		if uri[i] == '%' && i+1 < len(uri) && uri[i+1] == '%' {
			out = append(out, size...)
			i++
			continue
		}
		out = append(out, uri[i])
	}
	return string(out)
}
