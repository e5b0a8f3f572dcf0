package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/yiplee/structs"
)

const (
	// TransactionKeyAmount amount
	TransactionKeyAmount = "amount"
	// TransactionKeyCreditScore credit score
	TransactionKeyCreditScore = "credit_score"
	// TransactionKeyPriorAllowance allowance before approve
	TransactionKeyPriorAllowance = "prior_allowance"
	// TransactionKeyRollbackHash approve that restored the allowance
	TransactionKeyRollbackHash = "rollback_hash"
	// TransactionKeyError error message
	TransactionKeyError = "error"
	// TransactionKeyCDP cdp after the operation
	TransactionKeyCDP = "cdp"
	// TransactionKeyLender lender position after the operation
	TransactionKeyLender = "lender"
	// TransactionKeyReceipt receipt summary of the act step
	TransactionKeyReceipt = "receipt"
)

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// PutStruct put a struct flattened by its json tags
func (t TransactionExtraData) PutStruct(key string, value interface{}) {
	t[key] = structs.Map(value)
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// TransactionStatus status of a sequenced operation
type TransactionStatus int

const (
	// recorded; the approve, once ApproveHash is set, is not confirmed yet
	TransactionStatusInit TransactionStatus = iota
	// approve confirmed (or not needed), act not sent yet
	TransactionStatusApproving
	// act sent as TxHash, waiting for its receipt
	TransactionStatusPending
	TransactionStatusComplete
	TransactionStatusAbort
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusInit:
		return "init"
	case TransactionStatusApproving:
		return "approving"
	case TransactionStatusPending:
		return "pending"
	case TransactionStatusComplete:
		return "complete"
	case TransactionStatusAbort:
		return "abort"
	}

	return "unknown"
}

// Transaction one approve-then-act operation
type Transaction struct {
	ID          int64             `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID     string            `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	Action      ActionType        `sql:"size:24" json:"action,omitempty"`
	Account     string            `sql:"size:42;index:idx_transactions_account" json:"account,omitempty"`
	Vault       string            `sql:"size:42" json:"vault,omitempty"`
	Amount      decimal.Decimal   `sql:"type:decimal(78,0)" json:"amount"`
	ApproveHash string            `sql:"size:66" json:"approve_hash,omitempty"`
	TxHash      string            `sql:"size:66;index:idx_transactions_tx_hash" json:"tx_hash,omitempty"`
	BlockNumber uint64            `json:"block_number,omitempty"`
	ErrorCode   ErrorCode         `json:"error_code,omitempty"`
	Data        types.JSONText    `sql:"type:TEXT" json:"data,omitempty"`
	Status      TransactionStatus `sql:"default:0;index:idx_transactions_status" json:"status"`
	Version     int64             `sql:"default:0" json:"version,omitempty"`
	CreatedAt   time.Time         `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
	UpdatedAt   time.Time         `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// SetExtraData set extra data
func (t *Transaction) SetExtraData(extra TransactionExtraData) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// ExtraData decode extra data
func (t *Transaction) ExtraData() TransactionExtraData {
	extra := NewTransactionExtra()
	if len(t.Data) > 0 {
		_ = json.Unmarshal(t.Data, &extra)
	}

	return extra
}

// Finished complete or aborted
func (t *Transaction) Finished() bool {
	return t.Status == TransactionStatusComplete || t.Status == TransactionStatusAbort
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	List(ctx context.Context, offset time.Time, limit int) ([]*Transaction, error)
	ListByAccount(ctx context.Context, account string, limit int) ([]*Transaction, error)
	ListUnfinished(ctx context.Context, before time.Time, limit int) ([]*Transaction, error)
	Accounts(ctx context.Context) ([]string, error)
}

// Operation an approve-then-act request
type Operation struct {
	TraceID     string
	Action      ActionType
	Account     string
	Amount      decimal.Decimal
	CreditScore int64
}

// OperationService runs operations against the vault
type OperationService interface {
	Execute(ctx context.Context, op *Operation) (*Transaction, error)
	// Resume drive a transaction left unfinished by a crash to a final state
	Resume(ctx context.Context, tx *Transaction) error
}
