package cache

import (
	"context"
	"time"

	"github.com/itired/itired/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DBStore is a Postgres-backed cache for deployments without Redis.
// Expired rows are skipped on read and removed by the sweeper.
type DBStore struct {
	db pg.Database
}

func NewDBStore(db pg.Database) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
        SELECT value FROM cache_items
        WHERE key = $1 AND expires_at > now()
    `
	var value []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't read cache item", zap.Error(err))
		return nil, err
	}
	return value, nil
}

func (s *DBStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
        INSERT INTO cache_items (key, value, expires_at)
        VALUES ($1, $2, now() + $3)
        ON CONFLICT (key) DO UPDATE
        SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, created_at = now()
    `
	_, err := s.db.Exec(ctx, query, key, value, ttl)
	if err != nil {
		zap.L().Error("can't write cache item", zap.Error(err))
		return err
	}
	return nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cache_items WHERE key = $1`, key)
	if err != nil {
		zap.L().Error("can't delete cache item", zap.Error(err))
		return err
	}
	return nil
}

// Sweep removes expired rows and returns how many were deleted.
func (s *DBStore) Sweep(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM cache_items WHERE expires_at <= now()`)
	if err != nil {
		zap.L().Error("can't sweep cache items", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}
