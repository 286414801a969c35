package shoprepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/itired/itired/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

var itemRowColumns = []string{
	"id", "name", "description", "item_type", "category_id", "price", "rarity", "stock",
	"sales_count", "is_active", "is_featured", "payload", "image_url", "preview_url", "created_at",
}

func itemRow(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(itemRowColumns).AddRow(
		1, "Neon Theme", "Glow in the dark", "theme", 2, int64(150), "rare", 5,
		12, true, false, []byte(`{"color":"neon"}`), "", "", now,
	)
}

func TestRepository_ListCategories(t *testing.T) {
	repo, mock, _ := NewMock(t)

	t.Run("Active categories are listed", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "name", "description", "icon", "display_order", "is_active"}).
			AddRow(1, "Themes", "Interface themes", "palette", 1, true).
			AddRow(2, "Badges", "Profile badges", "star", 2, true)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM shop_categories`)).WillReturnRows(rows)

		categories, err := repo.ListCategories(context.Background())
		assert.NoError(t, err)
		assert.Len(t, categories, 2)
		assert.Equal(t, "Themes", categories[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM shop_categories`)).
			WillReturnError(errors.New("database error"))

		_, err := repo.ListCategories(context.Background())
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListItems(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	t.Run("Unfiltered listing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM shop_items`)).
			WillReturnRows(itemRow(now))

		items, err := repo.ListItems(context.Background(), ItemFilter{})
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, "Neon Theme", items[0].Name)
		assert.Equal(t, map[string]any{"color": "neon"}, items[0].Payload)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Filter arguments are positional", func(t *testing.T) {
		minPrice := int64(100)
		mock.ExpectQuery(regexp.QuoteMeta(`rarity = $2 AND price >= $3`)).
			WithArgs(2, "rare", minPrice).
			WillReturnRows(itemRow(now))

		items, err := repo.ListItems(context.Background(), ItemFilter{CategoryID: 2, Rarity: "rare", MinPrice: &minPrice})
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM shop_items`)).
			WillReturnError(errors.New("database error"))

		_, err := repo.ListItems(context.Background(), ItemFilter{})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindItemByID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		itemID    int
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name:   "Item is found",
			itemID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
					WithArgs(1).
					WillReturnRows(itemRow(now))
			},
			found: true,
		},
		{
			name:   "Missing item returns nil",
			itemID: 99,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
					WithArgs(99).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:   "Database error",
			itemID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			item, err := repo.FindItemByID(context.Background(), tt.itemID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.found {
					assert.Equal(t, "Neon Theme", item.Name)
				} else {
					assert.Nil(t, item)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_RegisterSale(t *testing.T) {
	repo, mock, _ := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		sold      bool
	}{
		{
			name: "Sale is registered",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE shop_items`)).
					WithArgs(1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			sold: true,
		},
		{
			name: "Out of stock matches no row",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE shop_items`)).
					WithArgs(1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			sold: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE shop_items`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			sold, err := repo.RegisterSale(context.Background(), 1)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.sold, sold)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
