package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/service/profileservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/utils"
)

type Service interface {
	GetProfile(ctx context.Context, userID int) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int, update profileservice.ProfileUpdate) (*domain.User, error)
	GetSettings(ctx context.Context, userID int) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
	GetStatistics(ctx context.Context, userID int) (*domain.Statistics, error)
	ConnectMusicService(ctx context.Context, userID int, service, token string) error
}

type TokenChecker interface {
	CheckToken(ctx context.Context, service, token string) error
}

type ProfileHandler struct {
	profileService Service
	tokenChecker   TokenChecker
}

func New(profileService Service, tokenChecker TokenChecker) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		tokenChecker:   tokenChecker,
	}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	user, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profileservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toProfileDTO(user))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.UpdateProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), userID, profileservice.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		BannerURL:   req.BannerURL,
		Theme:       req.Theme,
		Language:    req.Language,
	})
	if err != nil {
		if errors.Is(err, profileservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toProfileDTO(user))
}

func (h *ProfileHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	settings, err := h.profileService.GetSettings(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toSettingsDTO(settings))
}

func (h *ProfileHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.UpdateSettingsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MusicService != nil && *req.MusicService != domain.ServiceYandex && *req.MusicService != domain.ServiceVK {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown music service")
		return
	}

	settings, err := h.profileService.GetSettings(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	applySettings(settings, &req)
	updated, err := h.profileService.UpdateSettings(r.Context(), settings)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toSettingsDTO(updated))
}

func (h *ProfileHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	stats, err := h.profileService.GetStatistics(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := dto.StatisticsResponseDTO{
		TracksListened:      stats.TracksListened,
		MinutesListened:     stats.MinutesListened,
		ItemsPurchased:      stats.ItemsPurchased,
		Level:               stats.Level,
		XP:                  stats.XP,
		DailyRewardsClaimed: stats.DailyRewardsClaimed,
		TotalLogins:         stats.TotalLogins,
	}
	if stats.LastDailyReward != nil {
		resp.LastDailyReward = stats.LastDailyReward.Format("2006-01-02")
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ConnectService validates the token against the external API before
// saving it.
func (h *ProfileHandler) ConnectService(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.ConnectServiceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Token is required")
		return
	}

	if err := h.tokenChecker.CheckToken(r.Context(), req.Service, req.Token); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Token validation failed")
		return
	}

	if err := h.profileService.ConnectMusicService(r.Context(), userID, req.Service, req.Token); err != nil {
		if errors.Is(err, profileservice.ErrUnknownService) {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown music service")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Music service connected"})
}

func toProfileDTO(user *domain.User) dto.ProfileResponseDTO {
	return dto.ProfileResponseDTO{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		Bio:              user.Bio,
		AvatarURL:        user.AvatarURL,
		BannerURL:        user.BannerURL,
		Theme:            user.Theme,
		Language:         user.Language,
		TelegramVerified: user.TelegramVerified,
		CreatedAt:        user.CreatedAt,
	}
}

func toSettingsDTO(settings *domain.Settings) dto.SettingsResponseDTO {
	return dto.SettingsResponseDTO{
		Theme:                 settings.Theme,
		Language:              settings.Language,
		AutoPlay:              settings.AutoPlay,
		ShowExplicit:          settings.ShowExplicit,
		MusicService:          settings.MusicService,
		NotificationsEnabled:  settings.NotificationsEnabled,
		TelegramNotifications: settings.TelegramNotifications,
		PrivacyLevel:          settings.PrivacyLevel,
	}
}

func applySettings(settings *domain.Settings, req *dto.UpdateSettingsRequestDTO) {
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.AutoPlay != nil {
		settings.AutoPlay = *req.AutoPlay
	}
	if req.ShowExplicit != nil {
		settings.ShowExplicit = *req.ShowExplicit
	}
	if req.MusicService != nil {
		settings.MusicService = *req.MusicService
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.TelegramNotifications != nil {
		settings.TelegramNotifications = *req.TelegramNotifications
	}
	if req.PrivacyLevel != nil {
		settings.PrivacyLevel = *req.PrivacyLevel
	}
}
