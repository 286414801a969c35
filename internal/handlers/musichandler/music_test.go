package musichandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/music"
	"github.com/itired/itired/internal/service/recommendservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*MusicHandler, *MockService, *MockRecommendService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	recommendService := NewMockRecommendService(ctrl)
	handler := New(service, recommendService)
	defer ctrl.Finish()
	return handler, service, recommendService
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, 1)
}

// routeCtx layers chi URL params over the authed context so handlers
// reading chi.URLParam see them.
func routeCtx(params map[string]string) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(authedCtx(), chi.RouteCtxKey, rctx)
}

func TestGetPlaylistsHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Playlists listed",
			prepareMock: func() {
				service.EXPECT().
					Playlists(authedCtx(), 1).
					Return([]music.Playlist{{ID: "1001", Title: "Favorites", TrackCount: 42, Service: "yandex"}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Token not configured",
			prepareMock: func() {
				service.EXPECT().Playlists(authedCtx(), 1).Return(nil, music.ErrNoToken)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().Playlists(authedCtx(), 1).Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/music/playlists", nil).WithContext(authedCtx())
			w := httptest.NewRecorder()

			handler.GetPlaylists(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestGetPlaylistTracksHandler(t *testing.T) {
	handler, service, _ := NewMock(t)
	ctx := routeCtx(map[string]string{"service": "yandex", "playlistID": "1001"})

	t.Run("Tracks listed", func(t *testing.T) {
		service.EXPECT().
			PlaylistTracks(ctx, 1, "yandex", "1001").
			Return([]music.Track{{ID: "yandex_10", Title: "Intro", Service: "yandex"}}, nil)

		r := httptest.NewRequest(http.MethodGet, "/music/playlists/yandex/1001", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.GetPlaylistTracks(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, "Intro", resp[0].Title)
	})

	t.Run("Unknown service", func(t *testing.T) {
		service.EXPECT().
			PlaylistTracks(ctx, 1, "yandex", "1001").
			Return(nil, music.ErrUnknownService)

		r := httptest.NewRequest(http.MethodGet, "/music/playlists/yandex/1001", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.GetPlaylistTracks(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPlayHandler(t *testing.T) {
	handler, service, _ := NewMock(t)
	ctx := routeCtx(map[string]string{"service": "yandex", "trackID": "yandex_10"})

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Stream resolved",
			prepareMock: func() {
				service.EXPECT().
					Play(ctx, 1, "yandex", "yandex_10").
					Return(&music.Stream{
						URL:   "https://cdn.example/stream/10",
						Track: music.Track{ID: "yandex_10", Title: "Intro", Artists: []string{"Artist"}, DurationMS: 180000},
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Track not found",
			prepareMock: func() {
				service.EXPECT().Play(ctx, 1, "yandex", "yandex_10").Return(nil, music.ErrTrackNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Rate limited",
			prepareMock: func() {
				service.EXPECT().Play(ctx, 1, "yandex", "yandex_10").Return(nil, music.ErrRateLimited)
			},
			expectedCode: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/music/play/yandex/yandex_10", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			handler.Play(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var resp struct {
					URL   string `json:"url"`
					Title string `json:"title"`
				}
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "https://cdn.example/stream/10", resp.URL)
				assert.Equal(t, "Intro", resp.Title)
			}
		})
	}
}

func TestGetHistoryHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	t.Run("History listed", func(t *testing.T) {
		service.EXPECT().
			History(authedCtx(), 1).
			Return([]domain.HistoryEntry{{TrackID: "yandex_10", Service: "yandex"}}, nil)

		r := httptest.NewRequest(http.MethodGet, "/music/history", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetHistory(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Internal server error", func(t *testing.T) {
		service.EXPECT().History(authedCtx(), 1).Return(nil, errors.New("error"))

		r := httptest.NewRequest(http.MethodGet, "/music/history", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetHistory(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetRecommendationsHandler(t *testing.T) {
	handler, _, recommendService := NewMock(t)

	t.Run("Defaults to yandex", func(t *testing.T) {
		recommendService.EXPECT().
			Get(authedCtx(), 1, domain.ServiceYandex).
			Return([]recommendservice.Recommendation{
				{Track: music.Track{ID: "yandex_1", Title: "Pick"}, Source: "chart"},
			}, nil)

		r := httptest.NewRequest(http.MethodGet, "/music/recommendations", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetRecommendations(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp []struct {
			ID     string `json:"id"`
			Source string `json:"source"`
		}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, "chart", resp[0].Source)
	})

	t.Run("Explicit service", func(t *testing.T) {
		recommendService.EXPECT().
			Get(authedCtx(), 1, domain.ServiceVK).
			Return(nil, nil)

		r := httptest.NewRequest(http.MethodGet, "/music/recommendations?service=vk", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetRecommendations(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Token not configured", func(t *testing.T) {
		recommendService.EXPECT().
			Get(authedCtx(), 1, domain.ServiceYandex).
			Return(nil, music.ErrNoToken)

		r := httptest.NewRequest(http.MethodGet, "/music/recommendations", nil).WithContext(authedCtx())
		w := httptest.NewRecorder()

		handler.GetRecommendations(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
