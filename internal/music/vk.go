package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/pkg/clients"
	"go.uber.org/zap"
)

const vkAPIVersion = "5.131"

// VKClient talks to the VK audio API. Tokens are sometimes saved as a
// whole OAuth redirect URL, so the access_token query parameter is
// extracted when present.
type VKClient struct {
	baseURL string
	client  clients.HTTPClientI
}

func NewVKClient(baseURL string, client clients.HTTPClientI) *VKClient {
	return &VKClient{baseURL: baseURL, client: client}
}

func (c *VKClient) Service() string { return domain.ServiceVK }

type vkTrack struct {
	ID       int64  `json:"id"`
	OwnerID  int64  `json:"owner_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int64  `json:"duration"`
	URL      string `json:"url"`
	Album    struct {
		Thumb struct {
			Photo300 string `json:"photo_300"`
		} `json:"thumb"`
	} `json:"album"`
}

func (t vkTrack) normalize() Track {
	return Track{
		ID:         fmt.Sprintf("%s_%d", domain.ServiceVK, t.ID),
		Title:      t.Title,
		Artists:    []string{t.Artist},
		DurationMS: t.Duration * 1000,
		CoverURI:   t.Album.Thumb.Photo300,
		Service:    domain.ServiceVK,
	}
}

type vkItems struct {
	Items []vkTrack `json:"items"`
}

func extractVKToken(token string) string {
	if i := strings.Index(token, "access_token="); i >= 0 {
		token = token[i+len("access_token="):]
		if j := strings.IndexByte(token, '&'); j >= 0 {
			token = token[:j]
		}
	}
	return token
}

func (c *VKClient) call(ctx context.Context, token, method string, params url.Values, out any) error {
	if token == "" {
		return ErrNoToken
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", extractVKToken(token))
	params.Set("v", vkAPIVersion)

	statusCode, respBody, _, err := c.client.Get(c.baseURL+"/method/"+method+"?"+params.Encode(), nil)
	if err != nil {
		zap.L().Error("vk request failed", zap.String("method", method), zap.Error(err))
		return err
	}
	if statusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if statusCode != http.StatusOK {
		return fmt.Errorf("vk: unexpected status %d for %s", statusCode, method)
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
		Error    *struct {
			Code    int    `json:"error_code"`
			Message string `json:"error_msg"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("vk: can't parse response: %w", err)
	}
	if envelope.Error != nil {
		if envelope.Error.Code == 5 {
			return ErrNoToken
		}
		if envelope.Error.Code == 6 || envelope.Error.Code == 29 {
			return ErrRateLimited
		}
		return fmt.Errorf("vk: api error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	return json.Unmarshal(envelope.Response, out)
}

func (c *VKClient) CheckToken(ctx context.Context, token string) error {
	var users []struct {
		ID int64 `json:"id"`
	}
	if err := c.call(ctx, token, "users.get", nil, &users); err != nil {
		return err
	}
	if len(users) == 0 {
		return ErrNoToken
	}
	return nil
}

func (c *VKClient) Playlists(ctx context.Context, token string) ([]Playlist, error) {
	var raw struct {
		Items []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
			Count int    `json:"count"`
			Photo struct {
				Photo300 string `json:"photo_300"`
			} `json:"photo"`
		} `json:"items"`
	}
	if err := c.call(ctx, token, "audio.getPlaylists", nil, &raw); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(raw.Items))
	for _, p := range raw.Items {
		playlists = append(playlists, Playlist{
			ID:         fmt.Sprintf("%s_%d", domain.ServiceVK, p.ID),
			Title:      p.Title,
			TrackCount: p.Count,
			CoverURI:   p.Photo.Photo300,
			Service:    domain.ServiceVK,
		})
	}
	return playlists, nil
}

func (c *VKClient) PlaylistTracks(ctx context.Context, token, playlistID string) ([]Track, error) {
	var raw vkItems
	params := url.Values{"playlist_id": {playlistID}}
	if err := c.call(ctx, token, "audio.get", params, &raw); err != nil {
		return nil, err
	}
	return normalizeVK(raw.Items, 0), nil
}

func (c *VKClient) Liked(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw vkItems
	params := url.Values{"count": {strconv.Itoa(limit)}}
	if err := c.call(ctx, token, "audio.get", params, &raw); err != nil {
		return nil, err
	}
	return normalizeVK(raw.Items, limit), nil
}

func (c *VKClient) Stream(ctx context.Context, token, trackID string) (*Stream, error) {
	var tracks []vkTrack
	params := url.Values{"audios": {trackID}}
	if err := c.call(ctx, token, "audio.getById", params, &tracks); err != nil {
		return nil, err
	}
	if len(tracks) == 0 || tracks[0].URL == "" {
		return nil, ErrTrackNotFound
	}
	return &Stream{URL: tracks[0].URL, Track: tracks[0].normalize()}, nil
}

func (c *VKClient) RecentlyPlayed(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw vkItems
	params := url.Values{"count": {strconv.Itoa(limit)}, "shuffle": {"0"}}
	if err := c.call(ctx, token, "audio.getRecent", params, &raw); err != nil {
		return nil, err
	}
	return normalizeVK(raw.Items, limit), nil
}

func (c *VKClient) Search(ctx context.Context, token, query string, limit int) ([]Track, error) {
	var raw vkItems
	params := url.Values{"q": {query}, "count": {strconv.Itoa(limit)}}
	if err := c.call(ctx, token, "audio.search", params, &raw); err != nil {
		return nil, err
	}
	return normalizeVK(raw.Items, limit), nil
}

func (c *VKClient) NewReleases(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw vkItems
	params := url.Values{"count": {strconv.Itoa(limit)}}
	if err := c.call(ctx, token, "audio.getPopular", params, &raw); err != nil {
		return nil, err
	}
	return normalizeVK(raw.Items, limit), nil
}

func (c *VKClient) Chart(ctx context.Context, token string, limit int) ([]Track, error) {
	return c.NewReleases(ctx, token, limit)
}

func (c *VKClient) Recommendations(ctx context.Context, token string, limit int) ([]Track, error) {
	var raw vkItems
	params := url.Values{"count": {strconv.Itoa(limit)}}
	if err := c.call(ctx, token, "audio.getRecommendations", params, &raw); err != nil {
		return nil, err
	}
	return normalizeVK(raw.Items, limit), nil
}

func normalizeVK(raw []vkTrack, limit int) []Track {
	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		if limit > 0 && len(tracks) >= limit {
			break
		}
		tracks = append(tracks, t.normalize())
	}
	return tracks
}
