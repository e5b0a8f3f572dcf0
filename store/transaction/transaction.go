package transaction

import (
	"context"
	"time"

	"creditrust/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transaction{})
		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_transactions_status_created", "status", "created_at").Error; err != nil {
			return err
		}

		return nil
	})
}

type transactionStore struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) core.TransactionStore {
	return &transactionStore{
		db: db,
	}
}

// Create is idempotent on trace id, transaction is filled with the stored row
func (s *transactionStore) Create(ctx context.Context, transaction *core.Transaction) error {
	if transaction.Version == 0 {
		transaction.Version = 1
	}

	return s.db.Update().Where("trace_id = ?", transaction.TraceID).FirstOrCreate(transaction).Error
}

func toUpdateParams(transaction *core.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"approve_hash": transaction.ApproveHash,
		"tx_hash":      transaction.TxHash,
		"block_number": transaction.BlockNumber,
		"error_code":   transaction.ErrorCode,
		"data":         transaction.Data,
		"status":       transaction.Status,
	}
}

func (s *transactionStore) Update(ctx context.Context, transaction *core.Transaction) error {
	updates := toUpdateParams(transaction)
	updates["version"] = gorm.Expr("version + 1")

	tx := s.db.Update().Model(transaction).Where("version = ?", transaction.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	transaction.Version++
	return nil
}

// FindByTraceID returns an empty transaction (ID 0) when none exists
func (s *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	var transaction core.Transaction
	err := s.db.View().Where("trace_id = ?", traceID).First(&transaction).Error
	if store.IsErrNotFound(err) {
		return &core.Transaction{}, nil
	}

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (s *transactionStore) List(ctx context.Context, offset time.Time, limit int) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	if limit <= 0 {
		limit = 500
	}

	if err := s.db.View().Where("created_at >= ?", offset).Order("created_at ASC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

func (s *transactionStore) ListByAccount(ctx context.Context, account string, limit int) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	if limit <= 0 {
		limit = 100
	}

	if err := s.db.View().Where("account = ?", account).Order("id DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

func (s *transactionStore) ListUnfinished(ctx context.Context, before time.Time, limit int) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	statuses := []core.TransactionStatus{
		core.TransactionStatusInit,
		core.TransactionStatusApproving,
		core.TransactionStatusPending,
	}

	if err := s.db.View().
		Where("status IN (?) AND updated_at < ?", statuses, before).
		Order("id").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

func (s *transactionStore) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := s.db.View().Model(core.Transaction{}).Order("account").Pluck("DISTINCT account", &accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}
