package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/service/inventoryservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/utils"
)

type Service interface {
	List(ctx context.Context, userID int) ([]domain.OwnedItem, error)
	Equip(ctx context.Context, userID, itemID int) error
	Unequip(ctx context.Context, userID, itemID int) error
}

type InventoryHandler struct {
	inventoryService Service
}

func New(inventoryService Service) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	items, err := h.inventoryService.List(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.InventoryItemResponseDTO, 0, len(items))
	for _, owned := range items {
		resp = append(resp, dto.InventoryItemResponseDTO{
			Item: dto.ShopItemResponseDTO{
				ID:          owned.Item.ID,
				Name:        owned.Item.Name,
				Description: owned.Item.Description,
				ItemType:    owned.Item.ItemType,
				CategoryID:  owned.Item.CategoryID,
				Price:       owned.Item.Price,
				Rarity:      owned.Item.Rarity,
				Payload:     owned.Item.Payload,
				ImageURL:    owned.Item.ImageURL,
				PreviewURL:  owned.Item.PreviewURL,
				Owned:       true,
			},
			Equipped:    owned.Equipped,
			PurchasedAt: owned.PurchasedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *InventoryHandler) Equip(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.inventoryService.Equip, "Item equipped")
}

func (h *InventoryHandler) Unequip(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.inventoryService.Unequip, "Item unequipped")
}

func (h *InventoryHandler) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, itemID int) error, message string) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.EquipRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := op(r.Context(), userID, req.ItemID); err != nil {
		switch {
		case errors.Is(err, inventoryservice.ErrItemNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Item not found")
		case errors.Is(err, inventoryservice.ErrNotOwned):
			utils.RespondWithError(w, http.StatusConflict, "Item is not owned")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: message})
}
