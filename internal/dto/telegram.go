package dto

import "time"

type LinkCodeResponseDTO struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TelegramStatusResponseDTO struct {
	Linked           bool   `json:"linked"`
	TelegramUsername string `json:"telegram_username,omitempty"`
}
