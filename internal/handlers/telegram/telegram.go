package telegram

import (
	"context"
	"errors"
	"net/http"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/service/profileservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/utils"
)

type Service interface {
	IssueLinkCode(ctx context.Context, userID int) (*domain.LinkCode, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID int) (*domain.User, error)
}

type TelegramHandler struct {
	telegramService Service
	profileService  ProfileService
}

func New(telegramService Service, profileService ProfileService) *TelegramHandler {
	return &TelegramHandler{
		telegramService: telegramService,
		profileService:  profileService,
	}
}

// IssueLinkCode returns a short-lived code the user forwards to the bot
// via /start <code>.
func (h *TelegramHandler) IssueLinkCode(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	code, err := h.telegramService.IssueLinkCode(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.LinkCodeResponseDTO{
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
	})
}

func (h *TelegramHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
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
	utils.RespondWithJSON(w, http.StatusOK, dto.TelegramStatusResponseDTO{
		Linked:           user.TelegramID != nil,
		TelegramUsername: user.TelegramUsername,
	})
}
