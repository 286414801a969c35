package dto

import "time"

type WalletResponseDTO struct {
	Balance     int64 `json:"balance" example:"250"`
	TotalEarned int64 `json:"total_earned" example:"400"`
	TotalSpent  int64 `json:"total_spent" example:"150"`
}

type TransactionResponseDTO struct {
	ID        int            `json:"id"`
	Amount    int64          `json:"amount" example:"-50"`
	Reason    string         `json:"reason" example:"purchase_theme"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type DailyRewardResponseDTO struct {
	Reward  int64 `json:"reward" example:"35"`
	Streak  int   `json:"streak" example:"3"`
	Balance int64 `json:"balance" example:"285"`
}
