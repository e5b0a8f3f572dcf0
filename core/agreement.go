package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// LoanAgreement the document a borrower and lender agree on
type LoanAgreement struct {
	Borrower     string          `json:"borrower"`
	Lender       string          `json:"lender"`
	Vault        string          `json:"vault"`
	ChainID      int64           `json:"chain_id"`
	Principal    decimal.Decimal `json:"principal"`
	Collateral   decimal.Decimal `json:"collateral"`
	APR          int64           `json:"apr"`
	CreditScore  int64           `json:"credit_score"`
	DueDate      int64           `json:"due_date"`
	LoanTxHash   string          `json:"loan_tx_hash,omitempty"`
	Terms        string          `json:"terms,omitempty"`
	AgreementRef string          `json:"agreement_ref"`
	CreatedAt    int64           `json:"created_at"`
}

// Agreement a stored agreement document keyed by its content identifier
type Agreement struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	CID       string         `sql:"size:64;unique_index:idx_agreements_cid" json:"cid"`
	Borrower  string         `sql:"size:42;index:idx_agreements_borrower" json:"borrower"`
	Content   types.JSONText `sql:"type:TEXT" json:"content"`
	PinnedCID string         `sql:"size:128" json:"pinned_cid,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// AgreementStore agreement store interface
type AgreementStore interface {
	Create(ctx context.Context, agreement *Agreement) error
	Find(ctx context.Context, cid string) (*Agreement, error)
	FindByBorrower(ctx context.Context, borrower string) ([]*Agreement, error)
	UpdatePin(ctx context.Context, cid, pinnedCID string) error
}

// AgreementService content addressed loan agreements
type AgreementService interface {
	Put(ctx context.Context, agreement *LoanAgreement) (*Agreement, error)
	Get(ctx context.Context, cid string) (*LoanAgreement, error)
}

// Pinner pins a json document to a remote ipfs pinning service
type Pinner interface {
	PinJSON(ctx context.Context, name string, content []byte) (string, error)
}
