package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// WalletRepository handles the append-only wallet ledger.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository constructs the repository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Add appends a ledger entry.
func (r *WalletRepository) Add(ctx context.Context, tx *models.WalletTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO wallet_transactions (id, user_id, contract_id, tx_type, amount, note, created_at)
        VALUES (:id, :user_id, :contract_id, :tx_type, :amount, :note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tx); err != nil {
		return fmt.Errorf("create wallet transaction: %w", err)
	}
	return nil
}

// ListByUser returns a user's transactions, newest first.
func (r *WalletRepository) ListByUser(ctx context.Context, userID string) ([]models.WalletTransaction, error) {
	const query = `SELECT id, user_id, contract_id, tx_type, amount, note, created_at
        FROM wallet_transactions WHERE user_id = $1 ORDER BY created_at DESC`
	var txs []models.WalletTransaction
	if err := r.db.SelectContext(ctx, &txs, query, userID); err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	return txs, nil
}

// BalanceByUser computes the current balance from the ledger.
func (r *WalletRepository) BalanceByUser(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COALESCE(SUM(CASE WHEN tx_type IN ('topup', 'refund') THEN amount ELSE -amount END), 0)
        FROM wallet_transactions WHERE user_id = $1`
	var balance int64
	if err := r.db.GetContext(ctx, &balance, query, userID); err != nil {
		return 0, fmt.Errorf("wallet balance: %w", err)
	}
	return balance, nil
}
