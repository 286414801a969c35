package linkcoderepo

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

func (r *Repository) Create(ctx context.Context, code *domain.LinkCode) (*domain.LinkCode, error) {
	query := `
        INSERT INTO link_codes (code, user_id, purpose, expires_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, code.Code, code.UserID, code.Purpose, code.ExpiresAt).
		Scan(&code.ID, &code.CreatedAt)
	if err != nil {
		zap.L().Error("can't save link code", zap.Error(err))
		return nil, err
	}
	return code, nil
}

// Consume marks an unused, unexpired code as used and binds the telegram
// account in one statement, so concurrent consumers cannot both win.
func (r *Repository) Consume(ctx context.Context, code string, telegramID int64, telegramUsername string) (*domain.LinkCode, error) {
	query := `
        UPDATE link_codes
        SET is_used = TRUE, used_at = now(), telegram_id = $2, telegram_username = $3
        WHERE code = $1 AND NOT is_used AND expires_at > now()
        RETURNING id, code, user_id, purpose, telegram_id, telegram_username,
                  is_used, used_at, expires_at, created_at
    `
	row := r.db.QueryRow(ctx, query, code, telegramID, telegramUsername)
	var lc domain.LinkCode
	err := row.Scan(
		&lc.ID, &lc.Code, &lc.UserID, &lc.Purpose, &lc.TelegramID, &lc.TelegramUsername,
		&lc.IsUsed, &lc.UsedAt, &lc.ExpiresAt, &lc.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't consume link code", zap.Error(err))
		return nil, err
	}
	return &lc, nil
}
