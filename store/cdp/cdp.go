package cdp

import (
	"context"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.CDP{})
		if err := tx.AutoMigrate(core.CDP{}).Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_cdps_vault_active", "vault", "is_active").Error; err != nil {
			return err
		}

		return nil
	})
}

type cdpStore struct {
	db *db.DB
}

// New new cdp store
func New(db *db.DB) core.CDPStore {
	return &cdpStore{db: db}
}

// Find returns the zeroed tuple (ID 0) when the owner never opened a cdp
func (s *cdpStore) Find(ctx context.Context, vault, owner common.Address) (*core.CDP, error) {
	var cdp core.CDP
	err := s.db.View().Where("vault = ? AND owner = ?", vault.Hex(), owner.Hex()).First(&cdp).Error
	if store.IsErrNotFound(err) {
		return core.EmptyCDP(vault, owner), nil
	}

	if err != nil {
		return nil, err
	}

	return &cdp, nil
}

func toUpdateParams(cdp *core.CDP) map[string]interface{} {
	return map[string]interface{}{
		"collateral_amount": cdp.CollateralAmount,
		"debt_amount":       cdp.DebtAmount,
		"interest_amount":   cdp.InterestAmount,
		"credit_score":      cdp.CreditScore,
		"apr":               cdp.APR,
		"due_date":          cdp.DueDate,
		"is_active":         cdp.IsActive,
		"assigned_lender":   cdp.AssignedLender,
		"last_accrual":      cdp.LastAccrual,
	}
}

func (s *cdpStore) Save(ctx context.Context, cdp *core.CDP) error {
	if cdp.ID == 0 {
		cdp.Version = 1
		return s.db.Update().Create(cdp).Error
	}

	updates := toUpdateParams(cdp)
	updates["version"] = gorm.Expr("version + 1")

	tx := s.db.Update().Model(cdp).Where("version = ?", cdp.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	cdp.Version++
	return nil
}

func (s *cdpStore) ListActive(ctx context.Context, vault common.Address) ([]*core.CDP, error) {
	var cdps []*core.CDP
	if err := s.db.View().Where("vault = ? AND is_active = ?", vault.Hex(), true).Order("id").Find(&cdps).Error; err != nil {
		return nil, err
	}

	return cdps, nil
}
