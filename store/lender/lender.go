package lender

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
		tx := db.Update().Model(core.LenderPosition{})
		if err := tx.AutoMigrate(core.LenderPosition{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type lenderStore struct {
	db *db.DB
}

// New new lender store
func New(db *db.DB) core.LenderStore {
	return &lenderStore{db: db}
}

func (s *lenderStore) Find(ctx context.Context, vault, lender common.Address) (*core.LenderPosition, error) {
	var position core.LenderPosition
	err := s.db.View().Where("vault = ? AND lender = ?", vault.Hex(), lender.Hex()).First(&position).Error
	if store.IsErrNotFound(err) {
		return core.EmptyLender(vault, lender), nil
	}

	if err != nil {
		return nil, err
	}

	return &position, nil
}

func (s *lenderStore) Save(ctx context.Context, position *core.LenderPosition) error {
	if position.ID == 0 {
		position.Version = 1
		return s.db.Update().Create(position).Error
	}

	tx := s.db.Update().Model(position).
		Where("version = ?", position.Version).
		Updates(map[string]interface{}{
			"staked_amount":   position.StakedAmount,
			"accrued_rewards": position.AccruedRewards,
			"reputation":      position.Reputation,
			"is_active":       position.IsActive,
			"last_accrual":    position.LastAccrual,
			"version":         gorm.Expr("version + 1"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	position.Version++
	return nil
}

func (s *lenderStore) ListActive(ctx context.Context, vault common.Address) ([]*core.LenderPosition, error) {
	var positions []*core.LenderPosition
	if err := s.db.View().Where("vault = ? AND is_active = ?", vault.Hex(), true).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}
