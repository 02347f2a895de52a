package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type walletStoreStub struct {
	balance      int64
	history      []models.WalletTransaction
	added        []*models.WalletTransaction
	balanceReads int
}

func (s *walletStoreStub) Add(ctx context.Context, tx *models.WalletTransaction) error {
	if tx.ID == "" {
		tx.ID = "tx-1"
	}
	s.added = append(s.added, tx)
	return nil
}

func (s *walletStoreStub) ListByUser(ctx context.Context, userID string) ([]models.WalletTransaction, error) {
	return s.history, nil
}

func (s *walletStoreStub) BalanceByUser(ctx context.Context, userID string) (int64, error) {
	s.balanceReads++
	return s.balance, nil
}

func TestWalletRecordTopupSkipsBalanceCheck(t *testing.T) {
	repo := &walletStoreStub{balance: 0}
	svc := NewWalletService(repo, nil, nil)

	tx, err := svc.Record(context.Background(), "u1", WalletTransactionRequest{
		Type:   models.WalletTopup,
		Amount: 500_000,
		Note:   "bank transfer",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", tx.UserID)
	assert.Equal(t, models.WalletTopup, tx.Type)
	assert.Equal(t, int64(500_000), tx.Amount)
	assert.Zero(t, repo.balanceReads)
	require.Len(t, repo.added, 1)
}

func TestWalletRecordPaymentChecksBalance(t *testing.T) {
	repo := &walletStoreStub{balance: 100_000}
	svc := NewWalletService(repo, nil, nil)

	_, err := svc.Record(context.Background(), "u1", WalletTransactionRequest{
		Type:   models.WalletPayment,
		Amount: 250_000,
	})
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)

	tx, err := svc.Record(context.Background(), "u1", WalletTransactionRequest{
		Type:   models.WalletPayment,
		Amount: 100_000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.WalletPayment, tx.Type)
}

func TestWalletRecordRejectsBadInput(t *testing.T) {
	repo := &walletStoreStub{}
	svc := NewWalletService(repo, nil, nil)

	_, err := svc.Record(context.Background(), "u1", WalletTransactionRequest{
		Type:   models.WalletTopup,
		Amount: -50,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)

	_, err = svc.Record(context.Background(), "u1", WalletTransactionRequest{
		Type:   "withdrawal",
		Amount: 100,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}

func TestWalletStatement(t *testing.T) {
	repo := &walletStoreStub{
		balance: 150_000,
		history: []models.WalletTransaction{
			{ID: "tx-2", Type: models.WalletPayment, Amount: 350_000},
			{ID: "tx-1", Type: models.WalletTopup, Amount: 500_000},
		},
	}
	svc := NewWalletService(repo, nil, nil)

	statement, err := svc.Statement(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(150_000), statement.Balance)
	assert.Len(t, statement.Transactions, 2)
}
