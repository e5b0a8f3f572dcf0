package agreement

import (
	"context"
	"errors"
	"fmt"

	"creditrust/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/lib/pq"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Agreement{})
		if err := tx.AutoMigrate(core.Agreement{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new agreement store
func New(db *db.DB) core.AgreementStore {
	return &agreementStore{db: db}
}

type agreementStore struct {
	db *db.DB
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create content is immutable per cid, storing the same cid twice is a no-op
func (s *agreementStore) Create(ctx context.Context, agreement *core.Agreement) error {
	err := s.db.Update().Where("cid = ?", agreement.CID).FirstOrCreate(agreement).Error
	if isUniqueViolation(err) {
		// lost a race with a concurrent insert of the same document
		return nil
	}

	return err
}

func (s *agreementStore) Find(ctx context.Context, cid string) (*core.Agreement, error) {
	var agreement core.Agreement
	err := s.db.View().Where("cid = ?", cid).First(&agreement).Error
	if store.IsErrNotFound(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrAgreementNotFound, cid)
	}

	if err != nil {
		return nil, err
	}

	return &agreement, nil
}

func (s *agreementStore) FindByBorrower(ctx context.Context, borrower string) ([]*core.Agreement, error) {
	var agreements []*core.Agreement
	if err := s.db.View().Where("borrower = ?", borrower).Order("id DESC").Find(&agreements).Error; err != nil {
		return nil, err
	}

	return agreements, nil
}

func (s *agreementStore) UpdatePin(ctx context.Context, cid, pinnedCID string) error {
	return s.db.Update().Model(core.Agreement{}).Where("cid = ?", cid).Update("pinned_cid", pinnedCID).Error
}
