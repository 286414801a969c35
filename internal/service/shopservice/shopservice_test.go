package shopservice

import (
	"context"
	"errors"
	"testing"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	shoprepo "github.com/itired/itired/internal/repo/shop-repo"
	"github.com/itired/itired/internal/service/walletservice"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockShopRepo, *MockInventoryRepo, *MockStatsRepo, *MockWalletService, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockShop := NewMockShopRepo(ctrl)
	mockInventory := NewMockInventoryRepo(ctrl)
	mockStats := NewMockStatsRepo(ctrl)
	mockWallet := NewMockWalletService(ctrl)
	mockTxManager := pg.NewMockTXManager(ctrl)
	service := New(mockShop, mockInventory, mockStats, mockWallet, mockTxManager)

	return service, mockShop, mockInventory, mockStats, mockWallet, mockTxManager
}

func passthroughTx(tx *pg.MockTXManager) {
	tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func catalogItem() *domain.ShopItem {
	return &domain.ShopItem{
		ID:       3,
		Name:     "Neon Theme",
		ItemType: "theme",
		Price:    150,
		Stock:    domain.UnlimitedStock,
		IsActive: true,
	}
}

func TestService_Purchase(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		prepareMock func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager)
		expectedErr error
		balance     int64
	}{
		{
			name: "Successful purchase",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(catalogItem(), nil)
				inv.EXPECT().Exists(gomock.Any(), 1, 3).Return(false, nil)
				wallet.EXPECT().Adjust(gomock.Any(), 1, int64(-150), domain.PurchaseReason("theme"), gomock.Any()).
					Return(&domain.Wallet{Balance: 50}, nil)
				shop.EXPECT().RegisterSale(gomock.Any(), 3).Return(true, nil)
				inv.EXPECT().Add(gomock.Any(), 1, 3).Return(true, nil)
				stats.EXPECT().Ensure(gomock.Any(), 1).Return(nil)
				stats.EXPECT().IncItemsPurchased(gomock.Any(), 1).Return(nil)
			},
			balance: 50,
		},
		{
			name: "Unknown item",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(nil, nil)
			},
			expectedErr: ErrItemNotFound,
		},
		{
			name: "Inactive item",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				item := catalogItem()
				item.IsActive = false
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(item, nil)
			},
			expectedErr: ErrItemUnavailable,
		},
		{
			name: "Out of stock",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				item := catalogItem()
				item.Stock = 0
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(item, nil)
			},
			expectedErr: ErrOutOfStock,
		},
		{
			name: "Already owned",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(catalogItem(), nil)
				inv.EXPECT().Exists(gomock.Any(), 1, 3).Return(true, nil)
			},
			expectedErr: ErrAlreadyOwned,
		},
		{
			name: "Insufficient balance",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(catalogItem(), nil)
				inv.EXPECT().Exists(gomock.Any(), 1, 3).Return(false, nil)
				wallet.EXPECT().Adjust(gomock.Any(), 1, int64(-150), domain.PurchaseReason("theme"), gomock.Any()).
					Return(nil, walletservice.ErrInsufficientBalance)
			},
			expectedErr: walletservice.ErrInsufficientBalance,
		},
		{
			name: "Concurrent last unit is lost",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				item := catalogItem()
				item.Stock = 1
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(item, nil)
				inv.EXPECT().Exists(gomock.Any(), 1, 3).Return(false, nil)
				wallet.EXPECT().Adjust(gomock.Any(), 1, int64(-150), domain.PurchaseReason("theme"), gomock.Any()).
					Return(&domain.Wallet{Balance: 50}, nil)
				shop.EXPECT().RegisterSale(gomock.Any(), 3).Return(false, nil)
			},
			expectedErr: ErrOutOfStock,
		},
		{
			name: "Concurrent duplicate grant is lost",
			prepareMock: func(shop *MockShopRepo, inv *MockInventoryRepo, stats *MockStatsRepo, wallet *MockWalletService, tx *pg.MockTXManager) {
				passthroughTx(tx)
				shop.EXPECT().FindItemByID(gomock.Any(), 3).Return(catalogItem(), nil)
				inv.EXPECT().Exists(gomock.Any(), 1, 3).Return(false, nil)
				wallet.EXPECT().Adjust(gomock.Any(), 1, int64(-150), domain.PurchaseReason("theme"), gomock.Any()).
					Return(&domain.Wallet{Balance: 50}, nil)
				shop.EXPECT().RegisterSale(gomock.Any(), 3).Return(true, nil)
				inv.EXPECT().Add(gomock.Any(), 1, 3).Return(false, nil)
			},
			expectedErr: ErrAlreadyOwned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockShop, mockInv, mockStats, mockWallet, mockTx := NewMock(t)
			tt.prepareMock(mockShop, mockInv, mockStats, mockWallet, mockTx)

			result, err := service.Purchase(ctx, 1, 3)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.balance, result.Balance)
				assert.Equal(t, "Neon Theme", result.Item.Name)
			}
		})
	}
}

func TestService_ListItems(t *testing.T) {
	ctx := context.Background()

	t.Run("Owned items are annotated", func(t *testing.T) {
		service, mockShop, mockInv, _, _, _ := NewMock(t)
		mockShop.EXPECT().ListItems(gomock.Any(), shoprepo.ItemFilter{}).Return([]domain.ShopItem{
			{ID: 3, Name: "Neon Theme"},
			{ID: 4, Name: "Gold Badge"},
		}, nil)
		mockInv.EXPECT().ListItemIDs(gomock.Any(), 1).Return([]int{4}, nil)

		views, err := service.ListItems(ctx, 1, shoprepo.ItemFilter{})
		assert.NoError(t, err)
		assert.Len(t, views, 2)
		assert.False(t, views[0].Owned)
		assert.True(t, views[1].Owned)
	})

	t.Run("Database error", func(t *testing.T) {
		service, mockShop, _, _, _, _ := NewMock(t)
		mockShop.EXPECT().ListItems(gomock.Any(), shoprepo.ItemFilter{}).
			Return(nil, errors.New("database error"))

		_, err := service.ListItems(ctx, 1, shoprepo.ItemFilter{})
		assert.Error(t, err)
	})
}
