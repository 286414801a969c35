package dto

import "time"

type ProfileResponseDTO struct {
	ID               int       `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	BannerURL        string    `json:"banner_url,omitempty"`
	Theme            string    `json:"theme"`
	Language         string    `json:"language"`
	TelegramVerified bool      `json:"telegram_verified"`
	CreatedAt        time.Time `json:"created_at"`
}

type UpdateProfileRequestDTO struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	BannerURL   *string `json:"banner_url,omitempty"`
	Theme       *string `json:"theme,omitempty"`
	Language    *string `json:"language,omitempty"`
}

type SettingsResponseDTO struct {
	Theme                 string `json:"theme"`
	Language              string `json:"language"`
	AutoPlay              bool   `json:"auto_play"`
	ShowExplicit          bool   `json:"show_explicit"`
	MusicService          string `json:"music_service" example:"yandex"`
	NotificationsEnabled  bool   `json:"notifications_enabled"`
	TelegramNotifications bool   `json:"telegram_notifications"`
	PrivacyLevel          string `json:"privacy_level"`
}

type UpdateSettingsRequestDTO struct {
	Theme                 *string `json:"theme,omitempty"`
	Language              *string `json:"language,omitempty"`
	AutoPlay              *bool   `json:"auto_play,omitempty"`
	ShowExplicit          *bool   `json:"show_explicit,omitempty"`
	MusicService          *string `json:"music_service,omitempty" validate:"omitempty,oneof=yandex vk"`
	NotificationsEnabled  *bool   `json:"notifications_enabled,omitempty"`
	TelegramNotifications *bool   `json:"telegram_notifications,omitempty"`
	PrivacyLevel          *string `json:"privacy_level,omitempty"`
}

type StatisticsResponseDTO struct {
	TracksListened      int    `json:"tracks_listened"`
	MinutesListened     int    `json:"minutes_listened"`
	ItemsPurchased      int    `json:"items_purchased"`
	Level               int    `json:"level"`
	XP                  int    `json:"xp"`
	DailyRewardsClaimed int    `json:"daily_rewards_claimed"`
	LastDailyReward     string `json:"last_daily_reward,omitempty"`
	TotalLogins         int    `json:"total_logins"`
}
