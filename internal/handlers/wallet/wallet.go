package wallet

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/dto"
	"github.com/itired/itired/internal/metrics"
	"github.com/itired/itired/internal/service/rewardservice"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/utils"
)

const defaultHistoryLimit = 50

type Service interface {
	GetWallet(ctx context.Context, userID int) (*domain.Wallet, error)
	GetHistory(ctx context.Context, userID, limit int) ([]domain.Transaction, error)
}

type RewardService interface {
	Claim(ctx context.Context, userID int) (*rewardservice.ClaimResult, error)
}

type Notifier interface {
	NotifyDailyReward(ctx context.Context, userID int, reward int64, streak int)
}

type WalletHandler struct {
	walletService Service
	rewardService RewardService
	notifier      Notifier
}

func New(walletService Service, rewardService RewardService, notifier Notifier) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		rewardService: rewardService,
		notifier:      notifier,
	}
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	wallet, err := h.walletService.GetWallet(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WalletResponseDTO{
		Balance:     wallet.Balance,
		TotalEarned: wallet.TotalEarned,
		TotalSpent:  wallet.TotalSpent,
	})
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	transactions, err := h.walletService.GetHistory(r.Context(), userID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.TransactionResponseDTO, 0, len(transactions))
	for _, t := range transactions {
		resp = append(resp, dto.TransactionResponseDTO{
			ID:        t.ID,
			Amount:    t.Amount,
			Reason:    t.Reason,
			Metadata:  t.Metadata,
			CreatedAt: t.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ClaimDaily hands out the once-per-day reward.
func (h *WalletHandler) ClaimDaily(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	result, err := h.rewardService.Claim(r.Context(), userID)
	if err != nil {
		if errors.Is(err, rewardservice.ErrAlreadyClaimed) {
			utils.RespondWithError(w, http.StatusConflict, "Daily reward already claimed")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	metrics.RecordDailyReward()
	if h.notifier != nil {
		go h.notifier.NotifyDailyReward(context.Background(), userID, result.Reward, result.Streak)
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.DailyRewardResponseDTO{
		Reward:  result.Reward,
		Streak:  result.Streak,
		Balance: result.Balance,
	})
}
