package settingsrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const settingsColumns = `id, user_id, theme, language, auto_play, show_explicit, music_service,
        notifications_enabled, telegram_notifications, privacy_level, updated_at`

func (r *Repository) Get(ctx context.Context, userID int) (*domain.Settings, error) {
	query := `
        SELECT ` + settingsColumns + `
        FROM user_settings
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var s domain.Settings
	err := row.Scan(
		&s.ID, &s.UserID, &s.Theme, &s.Language, &s.AutoPlay, &s.ShowExplicit,
		&s.MusicService, &s.NotificationsEnabled, &s.TelegramNotifications,
		&s.PrivacyLevel, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get user settings", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, userID int) (*domain.Settings, error) {
	query := `
        INSERT INTO user_settings (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING ` + settingsColumns + `
    `
	row := r.db.QueryRow(ctx, query, userID)
	var s domain.Settings
	err := row.Scan(
		&s.ID, &s.UserID, &s.Theme, &s.Language, &s.AutoPlay, &s.ShowExplicit,
		&s.MusicService, &s.NotificationsEnabled, &s.TelegramNotifications,
		&s.PrivacyLevel, &s.UpdatedAt,
	)
	if err != nil {
		zap.L().Error("failed to create user settings", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Update(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	query := `
        UPDATE user_settings
        SET theme = $1, language = $2, auto_play = $3, show_explicit = $4,
            music_service = $5, notifications_enabled = $6,
            telegram_notifications = $7, privacy_level = $8, updated_at = now()
        WHERE user_id = $9
        RETURNING ` + settingsColumns + `
    `
	row := r.db.QueryRow(ctx, query,
		s.Theme, s.Language, s.AutoPlay, s.ShowExplicit, s.MusicService,
		s.NotificationsEnabled, s.TelegramNotifications, s.PrivacyLevel, s.UserID)
	var updated domain.Settings
	err := row.Scan(
		&updated.ID, &updated.UserID, &updated.Theme, &updated.Language,
		&updated.AutoPlay, &updated.ShowExplicit, &updated.MusicService,
		&updated.NotificationsEnabled, &updated.TelegramNotifications,
		&updated.PrivacyLevel, &updated.UpdatedAt,
	)
	if err != nil {
		zap.L().Error("failed to update user settings", zap.Error(err))
		return nil, err
	}
	return &updated, nil
}
