package ledger

import (
	"context"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		for _, model := range []interface{}{core.Balance{}, core.Allowance{}, core.Contract{}} {
			if err := db.Update().Model(model).AutoMigrate(model).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

type ledgerStore struct {
	db *db.DB
}

// New new ledger store
func New(db *db.DB) core.LedgerStore {
	return &ledgerStore{db: db}
}

func (s *ledgerStore) Balance(ctx context.Context, token, owner common.Address) (decimal.Decimal, error) {
	var balance core.Balance
	err := s.db.View().Where("token = ? AND owner = ?", token.Hex(), owner.Hex()).First(&balance).Error
	if store.IsErrNotFound(err) {
		return decimal.Zero, nil
	}

	if err != nil {
		return decimal.Zero, err
	}

	return balance.Amount, nil
}

func (s *ledgerStore) SetBalance(ctx context.Context, token, owner common.Address, amount decimal.Decimal) error {
	balance := &core.Balance{
		Token:  token.Hex(),
		Owner:  owner.Hex(),
		Amount: amount,
	}

	tx := s.db.Update().Model(balance).
		Where("token = ? AND owner = ?", balance.Token, balance.Owner).
		Updates(map[string]interface{}{
			"amount": amount,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return s.db.Update().Create(balance).Error
	}

	return nil
}

func (s *ledgerStore) Allowance(ctx context.Context, token, owner, spender common.Address) (decimal.Decimal, error) {
	var allowance core.Allowance
	err := s.db.View().
		Where("token = ? AND owner = ? AND spender = ?", token.Hex(), owner.Hex(), spender.Hex()).
		First(&allowance).Error
	if store.IsErrNotFound(err) {
		return decimal.Zero, nil
	}

	if err != nil {
		return decimal.Zero, err
	}

	return allowance.Amount, nil
}

func (s *ledgerStore) SetAllowance(ctx context.Context, token, owner, spender common.Address, amount decimal.Decimal) error {
	allowance := &core.Allowance{
		Token:   token.Hex(),
		Owner:   owner.Hex(),
		Spender: spender.Hex(),
		Amount:  amount,
	}

	tx := s.db.Update().Model(allowance).
		Where("token = ? AND owner = ? AND spender = ?", allowance.Token, allowance.Owner, allowance.Spender).
		Updates(map[string]interface{}{
			"amount": amount,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return s.db.Update().Create(allowance).Error
	}

	return nil
}

func (s *ledgerStore) FindContract(ctx context.Context, address common.Address) (*core.Contract, error) {
	var contract core.Contract
	err := s.db.View().Where("address = ?", address.Hex()).First(&contract).Error
	if store.IsErrNotFound(err) {
		return &core.Contract{}, nil
	}

	if err != nil {
		return nil, err
	}

	return &contract, nil
}

func (s *ledgerStore) CreateContract(ctx context.Context, contract *core.Contract) error {
	return s.db.Update().Where("address = ?", contract.Address).FirstOrCreate(contract).Error
}

func (s *ledgerStore) ListContracts(ctx context.Context) ([]*core.Contract, error) {
	var contracts []*core.Contract
	if err := s.db.View().Order("id").Find(&contracts).Error; err != nil {
		return nil, err
	}

	return contracts, nil
}
