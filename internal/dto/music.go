package dto

import "time"

type ConnectServiceRequestDTO struct {
	Service string `json:"service" validate:"required,oneof=yandex vk"`
	Token   string `json:"token" validate:"required"`
}

type PlaylistResponseDTO struct {
	ID         string `json:"id" example:"yandex_1042"`
	Title      string `json:"title"`
	TrackCount int    `json:"track_count"`
	CoverURI   string `json:"cover_uri,omitempty"`
	Service    string `json:"service"`
}

type TrackResponseDTO struct {
	ID         string   `json:"id" example:"yandex_38634572"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	DurationMS int64    `json:"duration"`
	CoverURI   string   `json:"cover_uri,omitempty"`
	Service    string   `json:"service"`
}

type StreamResponseDTO struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	DurationMS int64    `json:"duration"`
	CoverURI   string   `json:"cover_uri,omitempty"`
}

type HistoryEntryResponseDTO struct {
	TrackID   string         `json:"track_id"`
	Service   string         `json:"service"`
	TrackData map[string]any `json:"track_data,omitempty"`
	PlayedAt  time.Time      `json:"played_at"`
}

type RecommendationResponseDTO struct {
	TrackResponseDTO
	Source string `json:"source" example:"history_genre"`
}
