package shoprepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

// ItemFilter narrows the catalog listing; zero values mean no constraint.
type ItemFilter struct {
	CategoryID int
	Rarity     string
	MinPrice   *int64
	MaxPrice   *int64
}

func (r *Repository) ListCategories(ctx context.Context) ([]domain.ShopCategory, error) {
	query := `
        SELECT id, name, description, icon, display_order, is_active
        FROM shop_categories
        WHERE is_active
        ORDER BY display_order, name
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't get shop categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []domain.ShopCategory
	for rows.Next() {
		var c domain.ShopCategory
		err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.DisplayOrder, &c.IsActive)
		if err != nil {
			zap.L().Error("can't scan shop category row", zap.Error(err))
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

const itemColumns = `id, name, description, item_type, category_id, price, rarity, stock,
           sales_count, is_active, is_featured, payload, image_url, preview_url, created_at`

func (r *Repository) ListItems(ctx context.Context, filter ItemFilter) ([]domain.ShopItem, error) {
	conditions := []string{"is_active"}
	args := []any{}

	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Rarity != "" {
		args = append(args, filter.Rarity)
		conditions = append(conditions, fmt.Sprintf("rarity = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM shop_items
        WHERE %s
        ORDER BY price
    `, itemColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get shop items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.ShopItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			zap.L().Error("can't scan shop item row", zap.Error(err))
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (r *Repository) FindItemByID(ctx context.Context, itemID int) (*domain.ShopItem, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM shop_items
        WHERE id = $1
    `, itemColumns)
	row := r.db.QueryRow(ctx, query, itemID)
	item, err := scanItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find shop item", zap.Error(err))
		return nil, err
	}
	return item, nil
}

// RegisterSale bumps the sales counter and decrements bounded stock. The
// stock <> 0 guard makes a concurrent last-unit sale fail instead of
// driving the counter negative.
func (r *Repository) RegisterSale(ctx context.Context, itemID int) (bool, error) {
	query := `
        UPDATE shop_items
        SET sales_count = sales_count + 1,
            stock = CASE WHEN stock > 0 THEN stock - 1 ELSE stock END,
            updated_at = now()
        WHERE id = $1 AND is_active AND stock <> 0
    `
	tag, err := r.db.Exec(ctx, query, itemID)
	if err != nil {
		zap.L().Error("failed to register sale", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*domain.ShopItem, error) {
	var item domain.ShopItem
	var payload []byte
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.ItemType, &item.CategoryID,
		&item.Price, &item.Rarity, &item.Stock, &item.SalesCount, &item.IsActive,
		&item.IsFeatured, &payload, &item.ImageURL, &item.PreviewURL, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &item.Payload); err != nil {
			return nil, err
		}
	}
	return &item, nil
}
