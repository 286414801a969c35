package cache

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

func NewMockStore(t *testing.T) (*DBStore, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	store := NewDBStore(mockDB)
	defer mockDB.Close()

	return store, mockDB
}

func TestDBStore_Get(t *testing.T) {
	store, mock := NewMockStore(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		value     []byte
	}{
		{
			name: "Live item is returned",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{"cached":true}`))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM cache_items`)).
					WithArgs("recommendations:1:yandex").
					WillReturnRows(rows)
			},
			value: []byte(`{"cached":true}`),
		},
		{
			name: "Expired or missing item is a miss",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM cache_items`)).
					WithArgs("recommendations:1:yandex").
					WillReturnError(pgx.ErrNoRows)
			},
			value: nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM cache_items`)).
					WithArgs("recommendations:1:yandex").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			value, err := store.Get(context.Background(), "recommendations:1:yandex")

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.value, value)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBStore_Set(t *testing.T) {
	store, mock := NewMockStore(t)

	t.Run("Item is upserted with a ttl", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cache_items`)).
			WithArgs("key", []byte("value"), 30*time.Minute).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := store.Set(context.Background(), "key", []byte("value"), 30*time.Minute)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cache_items`)).
			WithArgs("key", []byte("value"), 30*time.Minute).
			WillReturnError(errors.New("database error"))

		err := store.Set(context.Background(), "key", []byte("value"), 30*time.Minute)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBStore_Sweep(t *testing.T) {
	store, mock := NewMockStore(t)

	t.Run("Expired rows are removed", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cache_items WHERE expires_at <= now()`)).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		removed, err := store.Sweep(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cache_items WHERE expires_at <= now()`)).
			WillReturnError(errors.New("database error"))

		_, err := store.Sweep(context.Background())
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
