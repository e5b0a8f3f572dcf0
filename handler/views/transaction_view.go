package views

import (
	"creditrust/core"

	"github.com/shopspring/decimal"
)

// Transaction sequenced operation view
type Transaction struct {
	TraceID     string                    `json:"trace_id"`
	Action      core.ActionType           `json:"action"`
	Account     string                    `json:"account"`
	Vault       string                    `json:"vault"`
	Amount      decimal.Decimal           `json:"amount"`
	Status      string                    `json:"status"`
	ApproveHash string                    `json:"approve_hash,omitempty"`
	TxHash      string                    `json:"tx_hash,omitempty"`
	BlockNumber uint64                    `json:"block_number,omitempty"`
	ErrorCode   int                       `json:"error_code,omitempty"`
	Error       string                    `json:"error,omitempty"`
	Data        core.TransactionExtraData `json:"data,omitempty"`
	CreatedAt   int64                     `json:"created_at"`
	UpdatedAt   int64                     `json:"updated_at"`
}

// NewTransaction view of tx
func NewTransaction(tx *core.Transaction) Transaction {
	v := Transaction{
		TraceID:     tx.TraceID,
		Action:      tx.Action,
		Account:     tx.Account,
		Vault:       tx.Vault,
		Amount:      Human(tx.Amount),
		Status:      tx.Status.String(),
		ApproveHash: tx.ApproveHash,
		TxHash:      tx.TxHash,
		BlockNumber: tx.BlockNumber,
		Data:        tx.ExtraData(),
		CreatedAt:   tx.CreatedAt.Unix(),
		UpdatedAt:   tx.UpdatedAt.Unix(),
	}

	if tx.ErrorCode != 0 {
		v.ErrorCode = int(tx.ErrorCode)
		v.Error = tx.ErrorCode.Message()
	}

	return v
}

// Transactions views of txs
func Transactions(txs []*core.Transaction) []Transaction {
	views := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		views = append(views, NewTransaction(tx))
	}

	return views
}
