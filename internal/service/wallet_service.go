package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type walletStore interface {
	Add(ctx context.Context, tx *models.WalletTransaction) error
	ListByUser(ctx context.Context, userID string) ([]models.WalletTransaction, error)
	BalanceByUser(ctx context.Context, userID string) (int64, error)
}

// WalletTransactionRequest records one ledger mutation.
type WalletTransactionRequest struct {
	Type       models.WalletTransactionType `json:"type" validate:"required"`
	Amount     int64                        `json:"amount" validate:"required,gt=0"`
	ContractID *string                      `json:"contract_id,omitempty"`
	Note       string                       `json:"note"`
}

// WalletStatement is a user's balance plus transaction history.
type WalletStatement struct {
	Balance      int64                      `json:"balance"`
	Transactions []models.WalletTransaction `json:"transactions"`
}

// WalletService manages the append-only wallet ledger per user.
type WalletService struct {
	repo      walletStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWalletService constructs WalletService.
func NewWalletService(repo walletStore, validate *validator.Validate, logger *zap.Logger) *WalletService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{repo: repo, validator: validate, logger: logger}
}

// Record appends a transaction; payments are rejected when they would
// take the balance below zero.
func (s *WalletService) Record(ctx context.Context, userID string, req WalletTransactionRequest) (*models.WalletTransaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transaction payload")
	}
	switch req.Type {
	case models.WalletTopup, models.WalletPayment, models.WalletRefund:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown transaction type")
	}
	if !req.Type.Credits() {
		balance, err := s.repo.BalanceByUser(ctx, userID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load balance")
		}
		if balance < req.Amount {
			return nil, appErrors.ErrInsufficientBalance
		}
	}
	tx := &models.WalletTransaction{
		UserID:     userID,
		ContractID: req.ContractID,
		Type:       req.Type,
		Amount:     req.Amount,
		Note:       req.Note,
	}
	if err := s.repo.Add(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record transaction")
	}
	return tx, nil
}

// Statement returns balance and history for a user.
func (s *WalletService) Statement(ctx context.Context, userID string) (*WalletStatement, error) {
	balance, err := s.repo.BalanceByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load balance")
	}
	txs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transactions")
	}
	return &WalletStatement{Balance: balance, Transactions: txs}, nil
}
