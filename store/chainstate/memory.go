package chainstate

import (
	"context"
	"sort"
	"sync"
	"time"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu    sync.RWMutex
	state *memState
}

// NewMemory in process chain store
func NewMemory() core.ChainStore {
	return &memoryStore{state: newMemState()}
}

// Atomic runs fn on a copy and swaps it in on success
func (s *memoryStore) Atomic(ctx context.Context, fn func(state core.ChainState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&lockedState{st: next}); err != nil {
		return err
	}

	s.state = next
	return nil
}

func (s *memoryStore) View() core.ChainState {
	return &viewState{store: s}
}

type memState struct {
	height     uint64
	cdps       map[string]core.CDP
	lenders    map[string]core.LenderPosition
	balances   map[string]decimal.Decimal
	allowances map[string]decimal.Decimal
	contracts  map[string]core.Contract
	seq        uint64
}

func newMemState() *memState {
	return &memState{
		cdps:       map[string]core.CDP{},
		lenders:    map[string]core.LenderPosition{},
		balances:   map[string]decimal.Decimal{},
		allowances: map[string]decimal.Decimal{},
		contracts:  map[string]core.Contract{},
	}
}

func (m *memState) clone() *memState {
	c := newMemState()
	c.height = m.height
	c.seq = m.seq
	for k, v := range m.cdps {
		c.cdps[k] = v
	}
	for k, v := range m.lenders {
		c.lenders[k] = v
	}
	for k, v := range m.balances {
		c.balances[k] = v
	}
	for k, v := range m.allowances {
		c.allowances[k] = v
	}
	for k, v := range m.contracts {
		c.contracts[k] = v
	}
	return c
}

func (m *memState) nextID() uint64 {
	m.seq++
	return m.seq
}

func key(parts ...common.Address) string {
	k := ""
	for _, p := range parts {
		k += p.Hex()
	}
	return k
}

// lockedState is only handed out inside Atomic, which holds the lock
type lockedState struct {
	st *memState
}

func (s *lockedState) CDPs() core.CDPStore       { return &memCDPs{st: s.st} }
func (s *lockedState) Lenders() core.LenderStore { return &memLenders{st: s.st} }
func (s *lockedState) Ledger() core.LedgerStore  { return &memLedger{st: s.st} }

func (s *lockedState) Height(ctx context.Context) (uint64, error) {
	return s.st.height, nil
}

func (s *lockedState) SetHeight(ctx context.Context, height uint64) error {
	s.st.height = height
	return nil
}

// viewState reads the committed state under the read lock
type viewState struct {
	store *memoryStore
}

func (s *viewState) locked() *lockedState {
	return &lockedState{st: s.store.state}
}

func (s *viewState) CDPs() core.CDPStore       { return &viewCDPs{s} }
func (s *viewState) Lenders() core.LenderStore { return &viewLenders{s} }
func (s *viewState) Ledger() core.LedgerStore  { return &viewLedger{s} }

func (s *viewState) Height(ctx context.Context) (uint64, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return s.store.state.height, nil
}

func (s *viewState) SetHeight(ctx context.Context, height uint64) error {
	return s.store.Atomic(ctx, func(state core.ChainState) error {
		return state.SetHeight(ctx, height)
	})
}

// cdps

type memCDPs struct {
	st *memState
}

func (s *memCDPs) Find(ctx context.Context, vault, owner common.Address) (*core.CDP, error) {
	c, ok := s.st.cdps[key(vault, owner)]
	if !ok {
		return core.EmptyCDP(vault, owner), nil
	}

	return &c, nil
}

func (s *memCDPs) Save(ctx context.Context, cdp *core.CDP) error {
	k := key(common.HexToAddress(cdp.Vault), common.HexToAddress(cdp.Owner))
	now := time.Now()
	if cdp.ID == 0 {
		cdp.ID = s.st.nextID()
		cdp.CreatedAt = now
	}

	cdp.Version++
	cdp.UpdatedAt = now
	s.st.cdps[k] = *cdp
	return nil
}

func (s *memCDPs) ListActive(ctx context.Context, vault common.Address) ([]*core.CDP, error) {
	var cdps []*core.CDP
	for _, c := range s.st.cdps {
		if c.IsActive && common.HexToAddress(c.Vault) == vault {
			c := c
			cdps = append(cdps, &c)
		}
	}

	sort.Slice(cdps, func(i, j int) bool { return cdps[i].ID < cdps[j].ID })
	return cdps, nil
}

// lenders

type memLenders struct {
	st *memState
}

func (s *memLenders) Find(ctx context.Context, vault, lender common.Address) (*core.LenderPosition, error) {
	p, ok := s.st.lenders[key(vault, lender)]
	if !ok {
		return core.EmptyLender(vault, lender), nil
	}

	return &p, nil
}

func (s *memLenders) Save(ctx context.Context, position *core.LenderPosition) error {
	k := key(common.HexToAddress(position.Vault), common.HexToAddress(position.Lender))
	now := time.Now()
	if position.ID == 0 {
		position.ID = s.st.nextID()
		position.CreatedAt = now
	}

	position.Version++
	position.UpdatedAt = now
	s.st.lenders[k] = *position
	return nil
}

func (s *memLenders) ListActive(ctx context.Context, vault common.Address) ([]*core.LenderPosition, error) {
	var positions []*core.LenderPosition
	for _, p := range s.st.lenders {
		if p.IsActive && common.HexToAddress(p.Vault) == vault {
			p := p
			positions = append(positions, &p)
		}
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })
	return positions, nil
}

// ledger

type memLedger struct {
	st *memState
}

func (s *memLedger) Balance(ctx context.Context, token, owner common.Address) (decimal.Decimal, error) {
	return s.st.balances[key(token, owner)], nil
}

func (s *memLedger) SetBalance(ctx context.Context, token, owner common.Address, amount decimal.Decimal) error {
	s.st.balances[key(token, owner)] = amount
	return nil
}

func (s *memLedger) Allowance(ctx context.Context, token, owner, spender common.Address) (decimal.Decimal, error) {
	return s.st.allowances[key(token, owner, spender)], nil
}

func (s *memLedger) SetAllowance(ctx context.Context, token, owner, spender common.Address, amount decimal.Decimal) error {
	s.st.allowances[key(token, owner, spender)] = amount
	return nil
}

func (s *memLedger) FindContract(ctx context.Context, address common.Address) (*core.Contract, error) {
	c, ok := s.st.contracts[address.Hex()]
	if !ok {
		return &core.Contract{}, nil
	}

	return &c, nil
}

func (s *memLedger) CreateContract(ctx context.Context, contract *core.Contract) error {
	if existing, ok := s.st.contracts[contract.Address]; ok {
		*contract = existing
		return nil
	}

	contract.ID = s.st.nextID()
	contract.CreatedAt = time.Now()
	s.st.contracts[contract.Address] = *contract
	return nil
}

func (s *memLedger) ListContracts(ctx context.Context) ([]*core.Contract, error) {
	contracts := make([]*core.Contract, 0, len(s.st.contracts))
	for _, c := range s.st.contracts {
		c := c
		contracts = append(contracts, &c)
	}

	sort.Slice(contracts, func(i, j int) bool { return contracts[i].ID < contracts[j].ID })
	return contracts, nil
}
