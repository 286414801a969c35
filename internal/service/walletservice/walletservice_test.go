package walletservice

import (
	"context"
	"errors"
	"testing"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockStatsRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockRepo(ctrl)
	mockStats := NewMockStatsRepo(ctrl)
	mockTxManager := pg.NewMockTXManager(ctrl)
	service := New(mockRepo, mockStats, mockTxManager)

	return service, mockRepo, mockStats, mockTxManager
}

func passthroughTx(tx *pg.MockTXManager) {
	tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func TestService_Adjust(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		amount      int64
		reason      string
		prepareMock func(repo *MockRepo, stats *MockStatsRepo, tx *pg.MockTXManager)
		expectedErr error
		balance     int64
	}{
		{
			name:   "Credit moves balance and earned together",
			amount: 100,
			reason: domain.ReasonRegistrationBonus,
			prepareMock: func(repo *MockRepo, stats *MockStatsRepo, tx *pg.MockTXManager) {
				passthroughTx(tx)
				repo.EXPECT().CreateWallet(gomock.Any(), 1).Return(&domain.Wallet{UserID: 1}, nil)
				repo.EXPECT().ApplyAmount(gomock.Any(), 1, int64(100)).
					Return(&domain.Wallet{UserID: 1, Balance: 100, TotalEarned: 100}, nil)
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *domain.Transaction) (*domain.Transaction, error) {
						assert.Equal(t, int64(100), tr.Amount)
						assert.Equal(t, domain.ReasonRegistrationBonus, tr.Reason)
						return tr, nil
					})
			},
			balance: 100,
		},
		{
			name:   "Debit past zero is rejected",
			amount: -500,
			reason: domain.PurchaseReason("theme"),
			prepareMock: func(repo *MockRepo, stats *MockStatsRepo, tx *pg.MockTXManager) {
				passthroughTx(tx)
				repo.EXPECT().CreateWallet(gomock.Any(), 1).Return(&domain.Wallet{UserID: 1}, nil)
				repo.EXPECT().ApplyAmount(gomock.Any(), 1, int64(-500)).Return(nil, nil)
			},
			expectedErr: ErrInsufficientBalance,
		},
		{
			name:   "Daily reward advances streak bookkeeping",
			amount: 10,
			reason: domain.ReasonDailyReward,
			prepareMock: func(repo *MockRepo, stats *MockStatsRepo, tx *pg.MockTXManager) {
				passthroughTx(tx)
				repo.EXPECT().CreateWallet(gomock.Any(), 1).Return(&domain.Wallet{UserID: 1}, nil)
				repo.EXPECT().ApplyAmount(gomock.Any(), 1, int64(10)).
					Return(&domain.Wallet{UserID: 1, Balance: 10, TotalEarned: 10}, nil)
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&domain.Transaction{}, nil)
				stats.EXPECT().Ensure(gomock.Any(), 1).Return(nil)
				stats.EXPECT().RecordDailyReward(gomock.Any(), 1, gomock.Any()).Return(nil)
			},
			balance: 10,
		},
		{
			name:   "Transaction append failure rolls back",
			amount: 50,
			reason: domain.ReasonListeningReward,
			prepareMock: func(repo *MockRepo, stats *MockStatsRepo, tx *pg.MockTXManager) {
				passthroughTx(tx)
				repo.EXPECT().CreateWallet(gomock.Any(), 1).Return(&domain.Wallet{UserID: 1}, nil)
				repo.EXPECT().ApplyAmount(gomock.Any(), 1, int64(50)).
					Return(&domain.Wallet{UserID: 1, Balance: 50}, nil)
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, mockStats, mockTx := NewMock(t)
			tt.prepareMock(mockRepo, mockStats, mockTx)

			wallet, err := service.Adjust(ctx, 1, tt.amount, tt.reason, nil)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedErr.Error())
				assert.Nil(t, wallet)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.balance, wallet.Balance)
			}
		})
	}
}

func TestService_GetWallet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		prepareMock func(repo *MockRepo)
		expectedErr error
		balance     int64
	}{
		{
			name: "Existing wallet is returned",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().GetWallet(gomock.Any(), 1).
					Return(&domain.Wallet{UserID: 1, Balance: 250}, nil)
			},
			balance: 250,
		},
		{
			name: "Missing wallet is created lazily",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().GetWallet(gomock.Any(), 1).Return(nil, nil)
				repo.EXPECT().CreateWallet(gomock.Any(), 1).
					Return(&domain.Wallet{UserID: 1, Balance: 0}, nil)
			},
			balance: 0,
		},
		{
			name: "Database error",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().GetWallet(gomock.Any(), 1).Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, _, _ := NewMock(t)
			tt.prepareMock(mockRepo)

			wallet, err := service.GetWallet(ctx, 1)

			if tt.expectedErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.balance, wallet.Balance)
			}
		})
	}
}
