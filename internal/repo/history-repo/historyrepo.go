package historyrepo

import (
	"context"
	"encoding/json"
	"time"

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

func (r *Repository) Insert(ctx context.Context, entry *domain.HistoryEntry) error {
	var trackData []byte
	if entry.TrackData != nil {
		var err error
		trackData, err = json.Marshal(entry.TrackData)
		if err != nil {
			return err
		}
	}
	query := `
        INSERT INTO listening_history (user_id, track_id, service, track_data, duration_ms, played_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		entry.UserID, entry.TrackID, entry.Service, trackData, entry.DurationMS, entry.PlayedAt).
		Scan(&entry.ID)
	if err != nil {
		zap.L().Error("can't save history entry", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID, limit int) ([]domain.HistoryEntry, error) {
	query := `
        SELECT id, user_id, track_id, service, track_data, duration_ms, played_at
        FROM listening_history
        WHERE user_id = $1
        ORDER BY played_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		zap.L().Error("can't get listening history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var trackData []byte
		err := rows.Scan(&e.ID, &e.UserID, &e.TrackID, &e.Service, &trackData, &e.DurationMS, &e.PlayedAt)
		if err != nil {
			zap.L().Error("can't scan history row", zap.Error(err))
			return nil, err
		}
		if len(trackData) > 0 {
			if err := json.Unmarshal(trackData, &e.TrackData); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ExistsSince reports whether the user already has a history row for the
// track played at or after the given time.
func (r *Repository) ExistsSince(ctx context.Context, userID int, trackID string, since time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM listening_history
            WHERE user_id = $1 AND track_id = $2 AND played_at >= $3
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, trackID, since).Scan(&exists)
	if err != nil {
		zap.L().Error("can't check history entry", zap.Error(err))
		return false, err
	}
	return exists, nil
}
