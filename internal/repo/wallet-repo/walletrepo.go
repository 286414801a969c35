package walletrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) GetWallet(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        SELECT id, user_id, balance, total_earned, total_spent, updated_at
        FROM wallets
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.TotalEarned, &wallet.TotalSpent, &wallet.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

func (r *Repository) CreateWallet(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        INSERT INTO wallets (user_id, balance, total_earned, total_spent)
        VALUES ($1, 0, 0, 0)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING id, user_id, balance, total_earned, total_spent, updated_at
    `
	row := r.db.QueryRow(ctx, query, userID)
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.TotalEarned, &wallet.TotalSpent, &wallet.UpdatedAt)
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

// ApplyAmount adds a signed amount to the wallet, attributing it to
// total_earned or total_spent by sign. The WHERE guard keeps the balance
// from going negative; in that case (nil, nil) is returned.
func (r *Repository) ApplyAmount(ctx context.Context, userID int, amount int64) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET balance = balance + $1,
            total_earned = total_earned + CASE WHEN $1 > 0 THEN $1 ELSE 0 END,
            total_spent = total_spent + CASE WHEN $1 < 0 THEN -$1 ELSE 0 END,
            updated_at = now()
        WHERE user_id = $2 AND balance + $1 >= 0
        RETURNING id, user_id, balance, total_earned, total_spent, updated_at
    `
	row := r.db.QueryRow(ctx, query, amount, userID)
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.TotalEarned, &wallet.TotalSpent, &wallet.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to apply amount to wallet", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	var metadata []byte
	if tx.Metadata != nil {
		var err error
		metadata, err = json.Marshal(tx.Metadata)
		if err != nil {
			return nil, err
		}
	}
	query := `
        INSERT INTO transactions (user_id, amount, reason, metadata)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, tx.UserID, tx.Amount, tx.Reason, metadata).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

func (r *Repository) GetTransactions(ctx context.Context, userID int, limit int) ([]domain.Transaction, error) {
	query := `
        SELECT id, user_id, amount, reason, metadata, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var metadata []byte
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Reason, &metadata, &tx.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
				zap.L().Error("failed to decode transaction metadata", zap.Error(err))
				return nil, err
			}
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// HasReasonOnDay reports whether a transaction with the given reason exists
// on the UTC calendar day of the provided time.
func (r *Repository) HasReasonOnDay(ctx context.Context, userID int, reason string, day time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM transactions
            WHERE user_id = $1 AND reason = $2
              AND (created_at AT TIME ZONE 'UTC')::date = $3
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, reason, day.UTC().Format("2006-01-02")).Scan(&exists)
	if err != nil {
		zap.L().Error("failed to check transaction reason for day", zap.Error(err))
		return false, err
	}
	return exists, nil
}
