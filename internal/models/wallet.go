package models

import "time"

// WalletTransactionType classifies a wallet mutation.
type WalletTransactionType string

// Known transaction types. Amounts are stored positive; the type decides
// whether a transaction credits or debits the balance.
const (
	WalletTopup   WalletTransactionType = "topup"
	WalletPayment WalletTransactionType = "payment"
	WalletRefund  WalletTransactionType = "refund"
)

// Credits reports whether the transaction type increases the balance.
func (t WalletTransactionType) Credits() bool {
	return t == WalletTopup || t == WalletRefund
}

// WalletTransaction is one append-only wallet ledger entry.
type WalletTransaction struct {
	ID         string                `db:"id" json:"id"`
	UserID     string                `db:"user_id" json:"user_id"`
	ContractID *string               `db:"contract_id" json:"contract_id,omitempty"`
	Type       WalletTransactionType `db:"tx_type" json:"type"`
	Amount     int64                 `db:"amount" json:"amount"`
	Note       string                `db:"note" json:"note"`
	CreatedAt  time.Time             `db:"created_at" json:"created_at"`
}
