package shop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/metrics"
	shoprepo "github.com/itired/itired/internal/repo/shop-repo"
	"github.com/itired/itired/internal/service/shopservice"
	"github.com/itired/itired/internal/service/walletservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/utils"
)

type Service interface {
	ListCategories(ctx context.Context) ([]domain.ShopCategory, error)
	ListItems(ctx context.Context, userID int, filter shoprepo.ItemFilter) ([]shopservice.ItemView, error)
	Purchase(ctx context.Context, userID, itemID int) (*shopservice.PurchaseResult, error)
}

type Notifier interface {
	NotifyPurchase(ctx context.Context, userID int, itemName string, price int64)
}

type ShopHandler struct {
	shopService Service
	notifier    Notifier
}

func New(shopService Service, notifier Notifier) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		notifier:    notifier,
	}
}

func (h *ShopHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.shopService.ListCategories(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.ShopCategoryResponseDTO, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, dto.ShopCategoryResponseDTO{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			Icon:         c.Icon,
			DisplayOrder: c.DisplayOrder,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetItems lists active items, optionally filtered by category, rarity
// and price range, with ownership flags for the caller.
func (h *ShopHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	filter, err := parseFilter(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.shopService.ListItems(r.Context(), userID, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.ShopItemResponseDTO, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemDTO(&item.ShopItem, item.Owned))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.PurchaseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.shopService.Purchase(r.Context(), userID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, shopservice.ErrItemNotFound):
			metrics.RecordPurchase("rejected")
			utils.RespondWithError(w, http.StatusNotFound, "Item not found")
		case errors.Is(err, shopservice.ErrItemUnavailable):
			metrics.RecordPurchase("rejected")
			utils.RespondWithError(w, http.StatusConflict, "Item is not available")
		case errors.Is(err, shopservice.ErrOutOfStock):
			metrics.RecordPurchase("rejected")
			utils.RespondWithError(w, http.StatusConflict, "Item is out of stock")
		case errors.Is(err, shopservice.ErrAlreadyOwned):
			metrics.RecordPurchase("rejected")
			utils.RespondWithError(w, http.StatusConflict, "Item already owned")
		case errors.Is(err, walletservice.ErrInsufficientBalance):
			metrics.RecordPurchase("rejected")
			utils.RespondWithError(w, http.StatusPaymentRequired, "Insufficient balance")
		default:
			metrics.RecordPurchase("error")
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	metrics.RecordPurchase("ok")
	if h.notifier != nil {
		go h.notifier.NotifyPurchase(context.Background(), userID, result.Item.Name, result.Item.Price)
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.PurchaseResponseDTO{
		Item:    toItemDTO(result.Item, true),
		Balance: result.Balance,
	})
}

func parseFilter(r *http.Request) (shoprepo.ItemFilter, error) {
	var filter shoprepo.ItemFilter
	q := r.URL.Query()

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("invalid category_id")
		}
		filter.CategoryID = id
	}
	filter.Rarity = q.Get("rarity")

	if raw := q.Get("min_price"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("invalid min_price")
		}
		filter.MinPrice = &price
	}
	if raw := q.Get("max_price"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("invalid max_price")
		}
		filter.MaxPrice = &price
	}
	return filter, nil
}

func toItemDTO(item *domain.ShopItem, owned bool) dto.ShopItemResponseDTO {
	return dto.ShopItemResponseDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		ItemType:    item.ItemType,
		CategoryID:  item.CategoryID,
		Price:       item.Price,
		Rarity:      item.Rarity,
		Stock:       item.Stock,
		SalesCount:  item.SalesCount,
		IsFeatured:  item.IsFeatured,
		Payload:     item.Payload,
		ImageURL:    item.ImageURL,
		PreviewURL:  item.PreviewURL,
		Owned:       owned,
	}
}
