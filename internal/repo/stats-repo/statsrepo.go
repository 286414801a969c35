package statsrepo

import (
	"context"
	"time"

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

func (r *Repository) Get(ctx context.Context, userID int) (*domain.Statistics, error) {
	query := `
        SELECT id, user_id, tracks_listened, minutes_listened, items_purchased,
               level, xp, daily_rewards_claimed, last_daily_reward, total_logins
        FROM user_statistics
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var stats domain.Statistics
	err := row.Scan(
		&stats.ID, &stats.UserID, &stats.TracksListened, &stats.MinutesListened,
		&stats.ItemsPurchased, &stats.Level, &stats.XP, &stats.DailyRewardsClaimed,
		&stats.LastDailyReward, &stats.TotalLogins,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get user statistics", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) Ensure(ctx context.Context, userID int) error {
	query := `
        INSERT INTO user_statistics (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to ensure user statistics", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) IncItemsPurchased(ctx context.Context, userID int) error {
	query := `
        UPDATE user_statistics
        SET items_purchased = items_purchased + 1, updated_at = now()
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to bump items purchased", zap.Error(err))
		return err
	}
	return nil
}

// RecordDailyReward advances the streak bookkeeping after a successful claim.
func (r *Repository) RecordDailyReward(ctx context.Context, userID int, at time.Time) error {
	query := `
        UPDATE user_statistics
        SET daily_rewards_claimed = daily_rewards_claimed + 1,
            last_daily_reward = $2,
            updated_at = now()
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID, at)
	if err != nil {
		zap.L().Error("failed to record daily reward", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) AddListening(ctx context.Context, userID int, tracks, minutes int) error {
	query := `
        UPDATE user_statistics
        SET tracks_listened = tracks_listened + $2,
            minutes_listened = minutes_listened + $3,
            xp = xp + $2,
            updated_at = now()
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID, tracks, minutes)
	if err != nil {
		zap.L().Error("failed to bump listening statistics", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) IncLogins(ctx context.Context, userID int) error {
	query := `
        UPDATE user_statistics
        SET total_logins = total_logins + 1, updated_at = now()
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to bump login counter", zap.Error(err))
		return err
	}
	return nil
}
