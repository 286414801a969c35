package walletservice

import (
	"context"
	"errors"
	"time"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=walletservice.go -destination=walletservice_mock.go -package=walletservice

type Repo interface {
	GetWallet(ctx context.Context, userID int) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, userID int) (*domain.Wallet, error)
	ApplyAmount(ctx context.Context, userID int, amount int64) (*domain.Wallet, error)
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	GetTransactions(ctx context.Context, userID int, limit int) ([]domain.Transaction, error)
	HasReasonOnDay(ctx context.Context, userID int, reason string, day time.Time) (bool, error)
}

type StatsRepo interface {
	Ensure(ctx context.Context, userID int) error
	RecordDailyReward(ctx context.Context, userID int, at time.Time) error
}

type Service struct {
	repo      Repo
	statsRepo StatsRepo
	txManager pg.TXManager
}

func New(repo Repo, statsRepo StatsRepo, txManager pg.TXManager) *Service {
	return &Service{
		repo:      repo,
		statsRepo: statsRepo,
		txManager: txManager,
	}
}

var ErrInsufficientBalance = errors.New("insufficient balance")

// Adjust applies a signed amount to the user's wallet as one unit: the
// wallet row is created if absent, the balance and earned/spent totals move
// together, a transaction record is appended, and daily-reward streak
// bookkeeping advances when applicable. Any failure rolls the whole unit
// back.
func (s *Service) Adjust(ctx context.Context, userID int, amount int64, reason string, metadata map[string]any) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.repo.CreateWallet(ctx, userID); err != nil {
			zap.L().Error("failed to ensure wallet", zap.Error(err))
			return err
		}

		updated, err := s.repo.ApplyAmount(ctx, userID, amount)
		if err != nil {
			zap.L().Error("failed to apply amount", zap.Error(err))
			return err
		}
		if updated == nil {
			return ErrInsufficientBalance
		}
		wallet = updated

		if _, err := s.repo.CreateTransaction(ctx, &domain.Transaction{
			UserID:   userID,
			Amount:   amount,
			Reason:   reason,
			Metadata: metadata,
		}); err != nil {
			zap.L().Error("failed to append transaction", zap.Error(err))
			return err
		}

		if reason == domain.ReasonDailyReward {
			if err := s.statsRepo.Ensure(ctx, userID); err != nil {
				return err
			}
			if err := s.statsRepo.RecordDailyReward(ctx, userID, time.Now().UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *Service) GetWallet(ctx context.Context, userID int) (*domain.Wallet, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	if wallet == nil {
		wallet, err = s.repo.CreateWallet(ctx, userID)
		if err != nil {
			zap.L().Error("failed to create wallet", zap.Error(err))
			return nil, err
		}
	}
	return wallet, nil
}

func (s *Service) GetHistory(ctx context.Context, userID, limit int) ([]domain.Transaction, error) {
	transactions, err := s.repo.GetTransactions(ctx, userID, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

// HasClaimedOn reports whether a daily reward was already recorded on the
// UTC calendar day of the given time.
func (s *Service) HasClaimedOn(ctx context.Context, userID int, day time.Time) (bool, error) {
	return s.repo.HasReasonOnDay(ctx, userID, domain.ReasonDailyReward, day)
}
