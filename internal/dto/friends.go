package dto

import "time"

type FriendResponseDTO struct {
	UserID      int       `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	TasteMatch  int       `json:"taste_match"`
	Since       time.Time `json:"since"`
}

type AddFriendRequestDTO struct {
	Username string `json:"username" validate:"required"`
}

type AddFriendResponseDTO struct {
	Message string `json:"message"`
	Status  string `json:"status" example:"pending"`
}
