package inventoryservice

import (
	"context"
	"errors"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=inventoryservice.go -destination=inventoryservice_mock.go -package=inventoryservice

type Repo interface {
	ListByUser(ctx context.Context, userID int) ([]domain.OwnedItem, error)
	Exists(ctx context.Context, userID, itemID int) (bool, error)
	UnequipType(ctx context.Context, userID int, itemType string) error
	SetEquipped(ctx context.Context, userID, itemID int, equipped bool) (bool, error)
}

type ShopRepo interface {
	FindItemByID(ctx context.Context, itemID int) (*domain.ShopItem, error)
}

type Service struct {
	repo      Repo
	shopRepo  ShopRepo
	txManager pg.TXManager
}

func New(repo Repo, shopRepo ShopRepo, txManager pg.TXManager) *Service {
	return &Service{
		repo:      repo,
		shopRepo:  shopRepo,
		txManager: txManager,
	}
}

var (
	ErrItemNotFound = errors.New("item not found")
	ErrNotOwned     = errors.New("item not in inventory")
)

func (s *Service) List(ctx context.Context, userID int) ([]domain.OwnedItem, error) {
	owned, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to list inventory", zap.Error(err))
		return nil, err
	}
	return owned, nil
}

// Equip marks the item as equipped, clearing the flag on every other owned
// item of the same type first so at most one item per type stays equipped.
func (s *Service) Equip(ctx context.Context, userID, itemID int) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		item, err := s.shopRepo.FindItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}

		owned, err := s.repo.Exists(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrNotOwned
		}

		if err := s.repo.UnequipType(ctx, userID, item.ItemType); err != nil {
			return err
		}

		ok, err := s.repo.SetEquipped(ctx, userID, itemID, true)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotOwned
		}
		return nil
	})
}

func (s *Service) Unequip(ctx context.Context, userID, itemID int) error {
	ok, err := s.repo.SetEquipped(ctx, userID, itemID, false)
	if err != nil {
		zap.L().Error("failed to unequip item", zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotOwned
	}
	return nil
}
