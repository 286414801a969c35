package friendrepo

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

// ListAccepted returns accepted friendships with the counterpart's profile,
// regardless of which side initiated the request.
func (r *Repository) ListAccepted(ctx context.Context, userID int) ([]domain.FriendProfile, error) {
	query := `
        SELECT u.id, u.username, u.display_name, u.avatar_url, f.taste_match, f.created_at
        FROM friends f
        JOIN users u ON u.id = CASE WHEN f.user_id = $1 THEN f.friend_id ELSE f.user_id END
        WHERE (f.user_id = $1 OR f.friend_id = $1) AND f.status = 'accepted'
        ORDER BY f.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get friends", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var friends []domain.FriendProfile
	for rows.Next() {
		var fp domain.FriendProfile
		err := rows.Scan(&fp.UserID, &fp.Username, &fp.DisplayName, &fp.AvatarURL, &fp.TasteMatch, &fp.Since)
		if err != nil {
			zap.L().Error("can't scan friend row", zap.Error(err))
			return nil, err
		}
		friends = append(friends, fp)
	}
	return friends, nil
}

// FindBetween looks up a friendship in either direction.
func (r *Repository) FindBetween(ctx context.Context, userID, friendID int) (*domain.Friend, error) {
	query := `
        SELECT id, user_id, friend_id, status, taste_match, created_at
        FROM friends
        WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
    `
	row := r.db.QueryRow(ctx, query, userID, friendID)
	var f domain.Friend
	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.TasteMatch, &f.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find friendship", zap.Error(err))
		return nil, err
	}
	return &f, nil
}

func (r *Repository) Create(ctx context.Context, userID, friendID int) (*domain.Friend, error) {
	query := `
        INSERT INTO friends (user_id, friend_id, status)
        VALUES ($1, $2, 'pending')
        RETURNING id, user_id, friend_id, status, taste_match, created_at
    `
	row := r.db.QueryRow(ctx, query, userID, friendID)
	var f domain.Friend
	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.TasteMatch, &f.CreatedAt)
	if err != nil {
		zap.L().Error("can't create friend request", zap.Error(err))
		return nil, err
	}
	return &f, nil
}
