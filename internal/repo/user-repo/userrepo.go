package userrepo

import (
	"context"
	"fmt"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"github.com/jackc/pgx/v5"
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

const userColumns = `id, username, email, display_name, password_hash, bio, avatar_url, banner_url,
        telegram_id, telegram_username, telegram_verified, yandex_token, vk_token,
        theme, language, created_at, last_active`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.PasswordHash,
		&user.Bio, &user.AvatarURL, &user.BannerURL, &user.TelegramID, &user.TelegramUsername,
		&user.TelegramVerified, &user.YandexToken, &user.VKToken, &user.Theme, &user.Language,
		&user.CreatedAt, &user.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	user, err := scanUser(repo.db.QueryRow(ctx, query, username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user by username", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) FindByID(ctx context.Context, userID int) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(repo.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE telegram_id = $1`, userColumns)
	user, err := scanUser(repo.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user by telegram id", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := repo.db.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash, user.DisplayName).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET display_name = $1, bio = $2, theme = $3, language = $4, avatar_url = $5, banner_url = $6
		WHERE id = $7
	`
	_, err := repo.db.Exec(ctx, query,
		user.DisplayName, user.Bio, user.Theme, user.Language, user.AvatarURL, user.BannerURL, user.ID)
	if err != nil {
		zap.L().Error("can't update user profile", zap.Error(err))
		return err
	}
	return nil
}

// SetMusicToken stores the user's token for the given streaming service.
func (repo *Repository) SetMusicToken(ctx context.Context, userID int, service, token string) error {
	var column string
	switch service {
	case "yandex":
		column = "yandex_token"
	case "vk":
		column = "vk_token"
	default:
		return fmt.Errorf("unknown music service: %s", service)
	}
	query := fmt.Sprintf(`UPDATE users SET %s = $1 WHERE id = $2`, column)
	_, err := repo.db.Exec(ctx, query, token, userID)
	if err != nil {
		zap.L().Error("can't save music token", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) LinkTelegram(ctx context.Context, userID int, telegramID int64, telegramUsername string) error {
	query := `
		UPDATE users
		SET telegram_id = $1, telegram_username = $2, telegram_verified = TRUE
		WHERE id = $3
	`
	_, err := repo.db.Exec(ctx, query, telegramID, telegramUsername, userID)
	if err != nil {
		zap.L().Error("can't link telegram account", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) TouchLastActive(ctx context.Context, userID int) error {
	_, err := repo.db.Exec(ctx, `UPDATE users SET last_active = now() WHERE id = $1`, userID)
	if err != nil {
		zap.L().Error("can't touch last active", zap.Error(err))
		return err
	}
	return nil
}

// FindWithService returns users that have a token for the given service,
// ordered by least recently active first.
func (repo *Repository) FindWithService(ctx context.Context, service string, limit int) ([]domain.User, error) {
	var column string
	switch service {
	case "yandex":
		column = "yandex_token"
	case "vk":
		column = "vk_token"
	default:
		return nil, fmt.Errorf("unknown music service: %s", service)
	}
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s <> ''
		ORDER BY last_active ASC
		LIMIT $1
	`, userColumns, column)

	rows, err := repo.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get users with connected service", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("can't scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}
