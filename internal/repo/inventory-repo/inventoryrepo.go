package inventoryrepo

import (
	"context"
	"encoding/json"

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

// Add inserts an inventory row for the user and item. The unique
// (user_id, item_id) constraint turns a duplicate grant into a no-op,
// reported through the returned bool.
func (r *Repository) Add(ctx context.Context, userID, itemID int) (bool, error) {
	query := `
        INSERT INTO inventory (user_id, item_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, item_id) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, userID, itemID)
	if err != nil {
		zap.L().Error("can't add inventory entry", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Exists(ctx context.Context, userID, itemID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM inventory WHERE user_id = $1 AND item_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, itemID).Scan(&exists)
	if err != nil {
		zap.L().Error("can't check inventory entry", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (r *Repository) ListItemIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT item_id FROM inventory WHERE user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get owned item ids", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			zap.L().Error("can't scan owned item id", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]domain.OwnedItem, error) {
	query := `
        SELECT s.id, s.name, s.description, s.item_type, s.category_id, s.price, s.rarity,
               s.stock, s.sales_count, s.is_active, s.is_featured, s.payload,
               s.image_url, s.preview_url, s.created_at,
               i.equipped, i.purchased_at
        FROM inventory i
        JOIN shop_items s ON s.id = i.item_id
        WHERE i.user_id = $1
        ORDER BY i.purchased_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get inventory", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var owned []domain.OwnedItem
	for rows.Next() {
		var o domain.OwnedItem
		var payload []byte
		err := rows.Scan(
			&o.Item.ID, &o.Item.Name, &o.Item.Description, &o.Item.ItemType, &o.Item.CategoryID,
			&o.Item.Price, &o.Item.Rarity, &o.Item.Stock, &o.Item.SalesCount, &o.Item.IsActive,
			&o.Item.IsFeatured, &payload, &o.Item.ImageURL, &o.Item.PreviewURL, &o.Item.CreatedAt,
			&o.Equipped, &o.PurchasedAt,
		)
		if err != nil {
			zap.L().Error("can't scan inventory row", zap.Error(err))
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &o.Item.Payload); err != nil {
				return nil, err
			}
		}
		owned = append(owned, o)
	}
	return owned, nil
}

// UnequipType clears the equipped flag on every owned item of the given type.
func (r *Repository) UnequipType(ctx context.Context, userID int, itemType string) error {
	query := `
        UPDATE inventory i
        SET equipped = FALSE
        FROM shop_items s
        WHERE i.item_id = s.id AND i.user_id = $1 AND s.item_type = $2
    `
	_, err := r.db.Exec(ctx, query, userID, itemType)
	if err != nil {
		zap.L().Error("can't unequip item type", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) SetEquipped(ctx context.Context, userID, itemID int, equipped bool) (bool, error) {
	query := `
        UPDATE inventory
        SET equipped = $3
        WHERE user_id = $1 AND item_id = $2
    `
	tag, err := r.db.Exec(ctx, query, userID, itemID, equipped)
	if err != nil {
		zap.L().Error("can't set equipped flag", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
