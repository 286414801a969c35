package rewardservice

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rewardservice.go -destination=rewardservice_mock.go -package=rewardservice

const (
	baseRewardMin = 10
	baseRewardMax = 25
	streakBonus   = 5
	maxStreak     = 7
)

type WalletService interface {
	Adjust(ctx context.Context, userID int, amount int64, reason string, metadata map[string]any) (*domain.Wallet, error)
	HasClaimedOn(ctx context.Context, userID int, day time.Time) (bool, error)
}

type StatsRepo interface {
	Get(ctx context.Context, userID int) (*domain.Statistics, error)
}

type Service struct {
	wallet    WalletService
	statsRepo StatsRepo
	txManager pg.TXManager
	now       func() time.Time
}

func New(wallet WalletService, statsRepo StatsRepo, txManager pg.TXManager) *Service {
	return &Service{
		wallet:    wallet,
		statsRepo: statsRepo,
		txManager: txManager,
		now:       time.Now,
	}
}

var ErrAlreadyClaimed = errors.New("daily reward already claimed today")

type ClaimResult struct {
	Reward  int64
	Streak  int
	Balance int64
}

// Claim grants the daily reward at most once per UTC calendar day. The
// pre-check and the partial unique index on transactions both guard the
// idempotency key, so a concurrent duplicate claim fails in the database
// rather than paying twice.
func (s *Service) Claim(ctx context.Context, userID int) (*ClaimResult, error) {
	now := s.now().UTC()

	var result ClaimResult
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		claimed, err := s.wallet.HasClaimedOn(ctx, userID, now)
		if err != nil {
			zap.L().Error("failed to check daily reward claim", zap.Error(err))
			return err
		}
		if claimed {
			return ErrAlreadyClaimed
		}

		stats, err := s.statsRepo.Get(ctx, userID)
		if err != nil {
			zap.L().Error("failed to get statistics for streak", zap.Error(err))
			return err
		}

		streak := streakFor(stats, now)
		reward := int64(baseRewardMin + rand.Intn(baseRewardMax-baseRewardMin+1) + streak*streakBonus)

		wallet, err := s.wallet.Adjust(ctx, userID, reward, domain.ReasonDailyReward, map[string]any{
			"consecutive_days": streak,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyClaimed
			}
			zap.L().Error("failed to grant daily reward", zap.Error(err))
			return err
		}

		result = ClaimResult{
			Reward:  reward,
			Streak:  streak,
			Balance: wallet.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("daily reward claimed",
		zap.Int("userID", userID),
		zap.Int64("reward", result.Reward),
		zap.Int("streak", result.Streak),
	)
	return &result, nil
}

// streakFor resolves the consecutive-day streak: it continues only when the
// previous claim landed exactly one UTC calendar day earlier, otherwise it
// resets to 1. The streak cycles within a seven day window.
func streakFor(stats *domain.Statistics, now time.Time) int {
	if stats == nil || stats.LastDailyReward == nil {
		return 1
	}
	last := stats.LastDailyReward.UTC()
	gap := daysBetween(last, now)
	if gap != 1 {
		return 1
	}
	streak := stats.DailyRewardsClaimed%maxStreak + 1
	if streak > maxStreak {
		streak = maxStreak
	}
	return streak
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
