// Package chainstate persists the simulated chain. New keeps it in the
// database next to everything else, NewMemory in process for tests and
// throwaway local runs.
package chainstate

import (
	"context"

	"creditrust/core"
	"creditrust/store/cdp"
	"creditrust/store/ledger"
	"creditrust/store/lender"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

const heightKey = "sim_block_height"

type chainStore struct {
	db *db.DB
}

// New database backed chain store
func New(db *db.DB) core.ChainStore {
	return &chainStore{db: db}
}

func (s *chainStore) Atomic(ctx context.Context, fn func(state core.ChainState) error) error {
	return s.db.Tx(func(tx *db.DB) error {
		return fn(newState(tx))
	})
}

func (s *chainStore) View() core.ChainState {
	return newState(s.db)
}

type state struct {
	cdps     core.CDPStore
	lenders  core.LenderStore
	ledger   core.LedgerStore
	property property.Store
}

func newState(db *db.DB) *state {
	return &state{
		cdps:     cdp.New(db),
		lenders:  lender.New(db),
		ledger:   ledger.New(db),
		property: propertystore.New(db),
	}
}

func (s *state) CDPs() core.CDPStore       { return s.cdps }
func (s *state) Lenders() core.LenderStore { return s.lenders }
func (s *state) Ledger() core.LedgerStore  { return s.ledger }

func (s *state) Height(ctx context.Context) (uint64, error) {
	v, err := s.property.Get(ctx, heightKey)
	if err != nil {
		return 0, err
	}

	return uint64(v.Int64()), nil
}

func (s *state) SetHeight(ctx context.Context, height uint64) error {
	return s.property.Save(ctx, heightKey, height)
}
