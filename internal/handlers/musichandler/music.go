package musichandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/music"
	"github.com/itired/itired/internal/service/recommendservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/utils"
)

type Service interface {
	Playlists(ctx context.Context, userID int) ([]music.Playlist, error)
	PlaylistTracks(ctx context.Context, userID int, service, playlistID string) ([]music.Track, error)
	Liked(ctx context.Context, userID int) ([]music.Track, error)
	Play(ctx context.Context, userID int, service, trackID string) (*music.Stream, error)
	History(ctx context.Context, userID int) ([]domain.HistoryEntry, error)
}

type RecommendService interface {
	Get(ctx context.Context, userID int, service string) ([]recommendservice.Recommendation, error)
}

type MusicHandler struct {
	musicService     Service
	recommendService RecommendService
}

func New(musicService Service, recommendService RecommendService) *MusicHandler {
	return &MusicHandler{
		musicService:     musicService,
		recommendService: recommendService,
	}
}

func (h *MusicHandler) GetPlaylists(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	playlists, err := h.musicService.Playlists(r.Context(), userID)
	if err != nil {
		respondMusicError(w, err)
		return
	}

	resp := make([]dto.PlaylistResponseDTO, 0, len(playlists))
	for _, p := range playlists {
		resp = append(resp, dto.PlaylistResponseDTO{
			ID:         p.ID,
			Title:      p.Title,
			TrackCount: p.TrackCount,
			CoverURI:   p.CoverURI,
			Service:    p.Service,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *MusicHandler) GetPlaylistTracks(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	service := chi.URLParam(r, "service")
	playlistID := chi.URLParam(r, "playlistID")

	tracks, err := h.musicService.PlaylistTracks(r.Context(), userID, service, playlistID)
	if err != nil {
		respondMusicError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toTrackDTOs(tracks))
}

func (h *MusicHandler) GetLiked(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	tracks, err := h.musicService.Liked(r.Context(), userID)
	if err != nil {
		respondMusicError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toTrackDTOs(tracks))
}

// Play resolves the stream URL and records the listen.
func (h *MusicHandler) Play(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	service := chi.URLParam(r, "service")
	trackID := chi.URLParam(r, "trackID")

	stream, err := h.musicService.Play(r.Context(), userID, service, trackID)
	if err != nil {
		respondMusicError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.StreamResponseDTO{
		URL:        stream.URL,
		Title:      stream.Track.Title,
		Artists:    stream.Track.Artists,
		DurationMS: stream.Track.DurationMS,
		CoverURI:   stream.Track.CoverURI,
	})
}

func (h *MusicHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	entries, err := h.musicService.History(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.HistoryEntryResponseDTO, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.HistoryEntryResponseDTO{
			TrackID:   e.TrackID,
			Service:   e.Service,
			TrackData: e.TrackData,
			PlayedAt:  e.PlayedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *MusicHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	service := r.URL.Query().Get("service")
	if service == "" {
		service = domain.ServiceYandex
	}

	recs, err := h.recommendService.Get(r.Context(), userID, service)
	if err != nil {
		respondMusicError(w, err)
		return
	}

	resp := make([]dto.RecommendationResponseDTO, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, dto.RecommendationResponseDTO{
			TrackResponseDTO: toTrackDTO(rec.Track),
			Source:           rec.Source,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func respondMusicError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, music.ErrNoToken):
		utils.RespondWithError(w, http.StatusBadRequest, "Music service token is not configured")
	case errors.Is(err, music.ErrUnknownService):
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown music service")
	case errors.Is(err, music.ErrTrackNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Track not found")
	case errors.Is(err, music.ErrRateLimited):
		utils.RespondWithError(w, http.StatusTooManyRequests, "Music service rate limit, try again later")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toTrackDTO(t music.Track) dto.TrackResponseDTO {
	return dto.TrackResponseDTO{
		ID:         t.ID,
		Title:      t.Title,
		Artists:    t.Artists,
		DurationMS: t.DurationMS,
		CoverURI:   t.CoverURI,
		Service:    t.Service,
	}
}

func toTrackDTOs(tracks []music.Track) []dto.TrackResponseDTO {
	resp := make([]dto.TrackResponseDTO, 0, len(tracks))
	for _, t := range tracks {
		resp = append(resp, toTrackDTO(t))
	}
	return resp
}
