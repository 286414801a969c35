package dto

import "time"

type ShopCategoryResponseDTO struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type ShopItemResponseDTO struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ItemType    string         `json:"item_type" example:"theme"`
	CategoryID  int            `json:"category_id"`
	Price       int64          `json:"price" example:"150"`
	Rarity      string         `json:"rarity" example:"rare"`
	Stock       int            `json:"stock" example:"-1"`
	SalesCount  int            `json:"sales_count"`
	IsFeatured  bool           `json:"is_featured"`
	Payload     map[string]any `json:"payload,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	PreviewURL  string         `json:"preview_url,omitempty"`
	Owned       bool           `json:"owned"`
}

type PurchaseRequestDTO struct {
	ItemID int `json:"item_id" validate:"required"`
}

type PurchaseResponseDTO struct {
	Item    ShopItemResponseDTO `json:"item"`
	Balance int64               `json:"balance" example:"100"`
}

type InventoryItemResponseDTO struct {
	Item        ShopItemResponseDTO `json:"item"`
	Equipped    bool                `json:"equipped"`
	PurchasedAt time.Time           `json:"purchased_at"`
}

type EquipRequestDTO struct {
	ItemID int `json:"item_id" validate:"required"`
}
