package eth

import (
	"context"
	"fmt"
	"math/big"

	"creditrust/core"
	"creditrust/pkg/chain"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fox-one/pkg/logger"
)

// Backend the json-rpc calls the client makes, *ethclient.Client
type Backend interface {
	core.Chain
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Signer signs for the accounts in its keyring
type Signer struct {
	keys     *chain.Keyring
	chainID  *big.Int
	gasLimit uint64
}

// NewSigner gasLimit 0 estimates per transaction
func NewSigner(keys *chain.Keyring, chainID int64, gasLimit uint64) *Signer {
	return &Signer{
		keys:     keys,
		chainID:  big.NewInt(chainID),
		gasLimit: gasLimit,
	}
}

func (s *Signer) opts(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	key, ok := s.keys.Key(from)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSignerNotFound, from.Hex())
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, s.chainID)
	if err != nil {
		return nil, err
	}

	opts.Context = ctx
	return opts, nil
}

type contract struct {
	backend Backend
	address common.Address
	abi     abi.ABI
	signer  *Signer
}

// revertErr turn a node error into a classified revert when it carries a reason
func revertErr(method string, err error) error {
	if reason, ok := chain.RevertReason(err); ok {
		return fmt.Errorf("%s: %w", method, core.NewRevertError(reason))
	}

	return fmt.Errorf("%s: %w", method, err)
}

func (c *contract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{To: &c.address, Data: data}
	output, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, revertErr(method, err)
	}

	if len(output) == 0 {
		code, err := c.backend.CodeAt(ctx, c.address, nil)
		if err == nil && len(code) == 0 {
			return nil, fmt.Errorf("%w: no contract code at %s", core.ErrDeploymentInvalid, c.address.Hex())
		}
	}

	return c.abi.Unpack(method, output)
}

// transact estimate, sign and send. Returns once the node accepted the
// transaction, confirmation is up to the caller.
func (c *contract) transact(ctx context.Context, from common.Address, method string, args ...interface{}) (*core.TxResult, error) {
	log := logger.FromContext(ctx).WithField("method", method)

	opts, err := c.signer.opts(ctx, from)
	if err != nil {
		return nil, err
	}

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{From: from, To: &c.address, Data: data}

	// a reverting call fails here with its reason
	gas := c.signer.gasLimit
	estimated, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return nil, revertErr(method, err)
	}

	if gas == 0 || estimated > gas {
		gas = estimated
	}

	nonce, err := c.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, err
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &c.address,
		Data:     data,
	})

	signed, err := opts.Signer(from, tx)
	if err != nil {
		return nil, err
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return nil, revertErr(method, err)
	}

	log.Debugln("sent", signed.Hash().Hex(), "nonce", nonce)
	return &core.TxResult{Hash: signed.Hash()}, nil
}
