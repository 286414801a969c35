package linkcoderepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/itired/itired/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	expires := now.Add(10 * time.Minute)

	t.Run("Code is stored", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(5, now)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO link_codes`)).
			WithArgs("abc-123", 1, "link", expires).
			WillReturnRows(rows)

		code, err := repo.Create(context.Background(), &domain.LinkCode{
			Code:      "abc-123",
			UserID:    1,
			Purpose:   "link",
			ExpiresAt: expires,
		})
		assert.NoError(t, err)
		assert.Equal(t, 5, code.ID)
		assert.Equal(t, now, code.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO link_codes`)).
			WithArgs("abc-123", 1, "link", expires).
			WillReturnError(errors.New("database error"))

		_, err := repo.Create(context.Background(), &domain.LinkCode{
			Code:      "abc-123",
			UserID:    1,
			Purpose:   "link",
			ExpiresAt: expires,
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Consume(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	tgID := int64(42)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		consumed  bool
	}{
		{
			name: "Unused code is consumed",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{
					"id", "code", "user_id", "purpose", "telegram_id", "telegram_username",
					"is_used", "used_at", "expires_at", "created_at",
				}).AddRow(5, "abc-123", 1, "link", &tgID, "musicfan", true, &now, now.Add(10*time.Minute), now)
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE link_codes`)).
					WithArgs("abc-123", tgID, "musicfan").
					WillReturnRows(rows)
			},
			consumed: true,
		},
		{
			name: "Expired or used code matches no row",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE link_codes`)).
					WithArgs("abc-123", tgID, "musicfan").
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE link_codes`)).
					WithArgs("abc-123", tgID, "musicfan").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			lc, err := repo.Consume(context.Background(), "abc-123", tgID, "musicfan")

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.consumed {
					assert.Equal(t, 1, lc.UserID)
					assert.True(t, lc.IsUsed)
				} else {
					assert.Nil(t, lc)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
