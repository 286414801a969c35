package friends

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/service/friendservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/utils"
)

type Service interface {
	List(ctx context.Context, userID int) ([]domain.FriendProfile, error)
	SendRequest(ctx context.Context, userID int, username string) (*domain.Friend, error)
}

type FriendsHandler struct {
	friendService Service
}

func New(friendService Service) *FriendsHandler {
	return &FriendsHandler{
		friendService: friendService,
	}
}

func (h *FriendsHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	friends, err := h.friendService.List(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.FriendResponseDTO, 0, len(friends))
	for _, f := range friends {
		resp = append(resp, dto.FriendResponseDTO{
			UserID:      f.UserID,
			Username:    f.Username,
			DisplayName: f.DisplayName,
			AvatarURL:   f.AvatarURL,
			TasteMatch:  f.TasteMatch,
			Since:       f.Since,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *FriendsHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.AddFriendRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	friend, err := h.friendService.SendRequest(r.Context(), userID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, friendservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, friendservice.ErrSelfFriend):
			utils.RespondWithError(w, http.StatusBadRequest, "You can't befriend yourself")
		case errors.Is(err, friendservice.ErrAlreadyRequested):
			utils.RespondWithError(w, http.StatusConflict, "Friendship already exists")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.AddFriendResponseDTO{
		Message: "Friend request sent",
		Status:  friend.Status,
	})
}
