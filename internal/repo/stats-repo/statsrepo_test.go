package statsrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

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

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)
	last := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name: "Statistics are returned",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{
					"id", "user_id", "tracks_listened", "minutes_listened", "items_purchased",
					"level", "xp", "daily_rewards_claimed", "last_daily_reward", "total_logins",
				}).AddRow(1, 1, 120, 360, 4, 2, 120, 7, &last, 15)
				mock.ExpectQuery(regexp.QuoteMeta(`FROM user_statistics`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			found: true,
		},
		{
			name: "Missing row returns nil",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM user_statistics`)).
					WithArgs(1).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM user_statistics`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			stats, err := repo.Get(context.Background(), 1)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.found {
					assert.Equal(t, 120, stats.TracksListened)
					assert.Equal(t, 7, stats.DailyRewardsClaimed)
				} else {
					assert.Nil(t, stats)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Ensure(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("Row is created once", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_statistics`)).
			WithArgs(1).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Ensure(context.Background(), 1)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_statistics`)).
			WithArgs(1).
			WillReturnError(errors.New("database error"))

		err := repo.Ensure(context.Background(), 1)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_RecordDailyReward(t *testing.T) {
	repo, mock := NewMock(t)
	at := time.Now()

	t.Run("Streak bookkeeping advances", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`SET daily_rewards_claimed = daily_rewards_claimed + 1`)).
			WithArgs(1, at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.RecordDailyReward(context.Background(), 1, at)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_AddListening(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("Listening counters are bumped", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`SET tracks_listened = tracks_listened + $2`)).
			WithArgs(1, 1, 3).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.AddListening(context.Background(), 1, 1, 3)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
