package shopservice

import (
	"context"
	"errors"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	shoprepo "github.com/itired/itired/internal/repo/shop-repo"
	"go.uber.org/zap"
)

//go:generate mockgen -source=shopservice.go -destination=shopservice_mock.go -package=shopservice

type ShopRepo interface {
	ListCategories(ctx context.Context) ([]domain.ShopCategory, error)
	ListItems(ctx context.Context, filter shoprepo.ItemFilter) ([]domain.ShopItem, error)
	FindItemByID(ctx context.Context, itemID int) (*domain.ShopItem, error)
	RegisterSale(ctx context.Context, itemID int) (bool, error)
}

type InventoryRepo interface {
	Add(ctx context.Context, userID, itemID int) (bool, error)
	Exists(ctx context.Context, userID, itemID int) (bool, error)
	ListItemIDs(ctx context.Context, userID int) ([]int, error)
}

type StatsRepo interface {
	Ensure(ctx context.Context, userID int) error
	IncItemsPurchased(ctx context.Context, userID int) error
}

type WalletService interface {
	Adjust(ctx context.Context, userID int, amount int64, reason string, metadata map[string]any) (*domain.Wallet, error)
}

type Service struct {
	shopRepo      ShopRepo
	inventoryRepo InventoryRepo
	statsRepo     StatsRepo
	wallet        WalletService
	txManager     pg.TXManager
}

func New(shopRepo ShopRepo, inventoryRepo InventoryRepo, statsRepo StatsRepo, wallet WalletService, txManager pg.TXManager) *Service {
	return &Service{
		shopRepo:      shopRepo,
		inventoryRepo: inventoryRepo,
		statsRepo:     statsRepo,
		wallet:        wallet,
		txManager:     txManager,
	}
}

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrItemUnavailable = errors.New("item is not available")
	ErrOutOfStock      = errors.New("item is out of stock")
	ErrAlreadyOwned    = errors.New("item already owned")
)

func (s *Service) ListCategories(ctx context.Context) ([]domain.ShopCategory, error) {
	categories, err := s.shopRepo.ListCategories(ctx)
	if err != nil {
		zap.L().Error("failed to list shop categories", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

// ItemView is a catalog item annotated with whether the user owns it.
type ItemView struct {
	domain.ShopItem
	Owned bool
}

func (s *Service) ListItems(ctx context.Context, userID int, filter shoprepo.ItemFilter) ([]ItemView, error) {
	items, err := s.shopRepo.ListItems(ctx, filter)
	if err != nil {
		zap.L().Error("failed to list shop items", zap.Error(err))
		return nil, err
	}

	ownedIDs, err := s.inventoryRepo.ListItemIDs(ctx, userID)
	if err != nil {
		zap.L().Error("failed to list owned item ids", zap.Error(err))
		return nil, err
	}
	owned := make(map[int]struct{}, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = struct{}{}
	}

	views := make([]ItemView, len(items))
	for i, item := range items {
		_, has := owned[item.ID]
		views[i] = ItemView{ShopItem: item, Owned: has}
	}
	return views, nil
}

type PurchaseResult struct {
	Item    *domain.ShopItem
	Balance int64
}

// Purchase checks the preconditions in order (active, stock, balance,
// not owned) and applies the whole purchase in one database transaction.
// The conditional stock update and the inventory unique constraint keep
// concurrent purchases from overselling or double-granting.
func (s *Service) Purchase(ctx context.Context, userID, itemID int) (*PurchaseResult, error) {
	var result PurchaseResult
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		item, err := s.shopRepo.FindItemByID(ctx, itemID)
		if err != nil {
			zap.L().Error("failed to find item", zap.Error(err))
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}
		if !item.IsActive {
			return ErrItemUnavailable
		}
		if !item.InStock() {
			return ErrOutOfStock
		}

		owned, err := s.inventoryRepo.Exists(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyOwned
		}

		wallet, err := s.wallet.Adjust(ctx, userID, -item.Price, domain.PurchaseReason(item.ItemType), map[string]any{
			"item_id":   item.ID,
			"item_name": item.Name,
		})
		if err != nil {
			return err
		}

		sold, err := s.shopRepo.RegisterSale(ctx, itemID)
		if err != nil {
			return err
		}
		if !sold {
			return ErrOutOfStock
		}

		added, err := s.inventoryRepo.Add(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if !added {
			return ErrAlreadyOwned
		}

		if err := s.statsRepo.Ensure(ctx, userID); err != nil {
			return err
		}
		if err := s.statsRepo.IncItemsPurchased(ctx, userID); err != nil {
			return err
		}

		result = PurchaseResult{Item: item, Balance: wallet.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("purchase completed",
		zap.Int("userID", userID),
		zap.Int("itemID", itemID),
		zap.Int64("balance", result.Balance),
	)
	return &result, nil
}
