package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"creditrust/core"

	"github.com/bluele/gcache"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Config simulated vault parameters
type Config struct {
	ChainID            int64
	MinCollateralRatio int64
	// seconds from the first draw until the loan is due
	LoanTerm int64
	// base lender reward, bps per year
	RewardRate int64
	// initial reputation of a new lender
	Reputation int64
	Seed       string
}

// DefaultConfig local hardhat network defaults
func DefaultConfig() Config {
	return Config{
		ChainID:            31337,
		MinCollateralRatio: 12000,
		LoanTerm:           30 * 24 * 3600,
		RewardRate:         500,
		Reputation:         100,
	}
}

// Chain in process stand-in for the json-rpc node. Every write mines one
// block; writes that revert are rejected before mining, the way gas
// estimation rejects them on a real node.
type Chain struct {
	cfg      Config
	store    core.ChainStore
	receipts gcache.Cache

	mu    sync.Mutex
	clock func() time.Time
}

// New new simulated chain
func New(store core.ChainStore, cfg Config) *Chain {
	return &Chain{
		cfg:      cfg,
		store:    store,
		receipts: gcache.New(4096).LRU().Build(),
		clock:    time.Now,
	}
}

// WithClock replace the block clock
func (c *Chain) WithClock(clock func() time.Time) *Chain {
	c.clock = clock
	return c
}

func (c *Chain) now() int64 {
	return c.clock().Unix()
}

// Block the block a write is mined in
type Block struct {
	Number uint64
	Time   int64
}

func (c *Chain) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(c.cfg.ChainID), nil
}

func (c *Chain) BlockNumber(ctx context.Context) (uint64, error) {
	return c.store.View().Height(ctx)
}

func (c *Chain) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	v, err := c.receipts.Get(hash)
	if err != nil {
		return nil, ethereum.NotFound
	}

	return v.(*types.Receipt), nil
}

func (c *Chain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	contract, err := c.store.View().Ledger().FindContract(ctx, account)
	if err != nil {
		return nil, err
	}

	if contract.ID == 0 {
		return nil, nil
	}

	return crypto.Keccak256([]byte(contract.Kind)), nil
}

type call struct {
	from   common.Address
	to     common.Address
	method string
	args   []interface{}
}

func (c call) hash(chainID int64, block uint64) common.Hash {
	parts := make([]string, 0, len(c.args))
	for _, arg := range c.args {
		parts = append(parts, fmt.Sprint(arg))
	}

	return crypto.Keccak256Hash(
		big.NewInt(chainID).Bytes(),
		new(big.Int).SetUint64(block).Bytes(),
		c.from.Bytes(),
		c.to.Bytes(),
		[]byte(c.method),
		[]byte(strings.Join(parts, ",")),
	)
}

// mine run fn as the next block
func (c *Chain) mine(ctx context.Context, tx call, fn func(state core.ChainState, block Block) (*common.Address, error)) (*core.TxResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := logger.FromContext(ctx).WithField("method", tx.method)

	var (
		block    Block
		hash     common.Hash
		deployed *common.Address
	)

	err := c.store.Atomic(ctx, func(state core.ChainState) error {
		height, err := state.Height(ctx)
		if err != nil {
			return err
		}

		block = Block{Number: height + 1, Time: c.now()}
		hash = tx.hash(c.cfg.ChainID, block.Number)

		if deployed, err = fn(state, block); err != nil {
			return err
		}

		return state.SetHeight(ctx, block.Number)
	})

	if err != nil {
		var reverted *core.RevertError
		if errors.As(err, &reverted) {
			log.Debugln("reverted:", reverted.Reason)
		} else {
			log.WithError(err).Errorln("mine")
		}

		return nil, err
	}

	receipt := &types.Receipt{
		Type:              types.LegacyTxType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		GasUsed:           21000,
		TxHash:            hash,
		BlockHash:         crypto.Keccak256Hash([]byte("block"), new(big.Int).SetUint64(block.Number).Bytes()),
		BlockNumber:       new(big.Int).SetUint64(block.Number),
		Logs:              []*types.Log{},
	}
	if deployed != nil {
		receipt.ContractAddress = *deployed
	}

	_ = c.receipts.Set(hash, receipt)
	log.Debugln("mined", hash.Hex(), "at", block.Number)

	return &core.TxResult{Hash: hash, BlockNumber: block.Number}, nil
}

func revert(reason string) error {
	return core.NewRevertError(reason)
}

// DeployToken deploy a mock erc20
func (c *Chain) DeployToken(ctx context.Context, from common.Address, name, symbol string, decimals uint8) (*Token, *core.TxResult, error) {
	contract := &core.Contract{
		Kind:     core.ContractKindToken,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}

	result, err := c.deploy(ctx, from, contract, nil)
	if err != nil {
		return nil, nil, err
	}

	return c.token(contract), result, nil
}

// DeployVault deploy a cdp vault over the two tokens
func (c *Chain) DeployVault(ctx context.Context, from, collateralToken, debtToken common.Address) (*Vault, *core.TxResult, error) {
	contract := &core.Contract{
		Kind:            core.ContractKindVault,
		Name:            "CDPVault",
		CollateralToken: collateralToken.Hex(),
		DebtToken:       debtToken.Hex(),
	}

	params := map[string]interface{}{
		"minCollateralRatio": c.cfg.MinCollateralRatio,
		"loanTerm":           c.cfg.LoanTerm,
	}

	result, err := c.deploy(ctx, from, contract, params)
	if err != nil {
		return nil, nil, err
	}

	return c.vault(contract), result, nil
}

// DeployContract deploy an auxiliary contract (credit agent, router) that
// only records its constructor parameters
func (c *Chain) DeployContract(ctx context.Context, from common.Address, kind core.ContractKind, name string, params interface{}) (common.Address, *core.TxResult, error) {
	contract := &core.Contract{
		Kind: kind,
		Name: name,
	}

	result, err := c.deploy(ctx, from, contract, params)
	if err != nil {
		return common.Address{}, nil, err
	}

	return common.HexToAddress(contract.Address), result, nil
}

func (c *Chain) deploy(ctx context.Context, from common.Address, contract *core.Contract, params interface{}) (*core.TxResult, error) {
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		contract.Params = data
	}

	tx := call{from: from, method: "deploy", args: []interface{}{contract.Kind, contract.Name}}
	return c.mine(ctx, tx, func(state core.ChainState, block Block) (*common.Address, error) {
		// the block number stands in for the deployer nonce
		addr := crypto.CreateAddress(from, block.Number)
		contract.Address = addr.Hex()
		contract.Deployer = from.Hex()
		if err := state.Ledger().CreateContract(ctx, contract); err != nil {
			return nil, err
		}

		return &addr, nil
	})
}

// Token bind a deployed token
func (c *Chain) Token(ctx context.Context, address common.Address) (*Token, error) {
	contract, err := c.contract(ctx, address, core.ContractKindToken)
	if err != nil {
		return nil, err
	}

	return c.token(contract), nil
}

// Vault bind a deployed vault
func (c *Chain) Vault(ctx context.Context, address common.Address) (*Vault, error) {
	contract, err := c.contract(ctx, address, core.ContractKindVault)
	if err != nil {
		return nil, err
	}

	return c.vault(contract), nil
}

func (c *Chain) contract(ctx context.Context, address common.Address, kind core.ContractKind) (*core.Contract, error) {
	contract, err := c.store.View().Ledger().FindContract(ctx, address)
	if err != nil {
		return nil, err
	}

	if contract.ID == 0 || contract.Kind != kind {
		return nil, fmt.Errorf("%w: no %s at %s", core.ErrDeploymentInvalid, kind, address.Hex())
	}

	return contract, nil
}

func (c *Chain) token(contract *core.Contract) *Token {
	return &Token{
		chain:    c,
		address:  common.HexToAddress(contract.Address),
		symbol:   contract.Symbol,
		decimals: contract.Decimals,
	}
}

func (c *Chain) vault(contract *core.Contract) *Vault {
	return &Vault{
		chain:      c,
		address:    common.HexToAddress(contract.Address),
		collateral: common.HexToAddress(contract.CollateralToken),
		debt:       common.HexToAddress(contract.DebtToken),
	}
}

// transfer moves token balance, reverting with the erc20 reason
func transfer(ctx context.Context, state core.ChainState, token, from, to common.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	ledger := state.Ledger()
	balance, err := ledger.Balance(ctx, token, from)
	if err != nil {
		return err
	}

	if balance.LessThan(amount) {
		return revert(core.ReasonInsufficientBalance)
	}

	if err := ledger.SetBalance(ctx, token, from, balance.Sub(amount)); err != nil {
		return err
	}

	toBalance, err := ledger.Balance(ctx, token, to)
	if err != nil {
		return err
	}

	return ledger.SetBalance(ctx, token, to, toBalance.Add(amount))
}

// transferFrom spends spender's allowance, then moves the balance
func transferFrom(ctx context.Context, state core.ChainState, token, spender, from, to common.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	ledger := state.Ledger()
	allowance, err := ledger.Allowance(ctx, token, from, spender)
	if err != nil {
		return err
	}

	if allowance.LessThan(amount) {
		return revert(core.ReasonInsufficientAllowance)
	}

	if err := ledger.SetAllowance(ctx, token, from, spender, allowance.Sub(amount)); err != nil {
		return err
	}

	return transfer(ctx, state, token, from, to, amount)
}
