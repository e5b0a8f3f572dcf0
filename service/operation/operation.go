package operation

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"creditrust/core"
	"creditrust/pkg/chain"
	"creditrust/pkg/concurrency"
	"creditrust/pkg/id"
	"creditrust/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	operationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "creditrust",
		Subsystem: "operation",
		Name:      "executed_total",
		Help:      "sequenced operations by action and final status",
	}, []string{"action", "status"})

	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "creditrust",
		Subsystem: "operation",
		Name:      "duration_seconds",
		Help:      "time from submit to final status",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"action"})
)

func init() {
	prometheus.MustRegister(operationCounter, operationDuration)
}

// Tokens the two tokens a vault pulls from callers
type Tokens struct {
	Collateral core.Token
	Debt       core.Token
}

// New new approve-then-act sequencer
func New(
	transactions core.TransactionStore,
	vault core.Vault,
	tokens Tokens,
	node chain.ReceiptFetcher,
	policy chain.Policy,
) core.OperationService {
	return &service{
		transactions: transactions,
		vault:        vault,
		tokens:       tokens,
		node:         node,
		policy:       policy,
		locks:        concurrency.NewKeyedMutex(),
	}
}

type service struct {
	transactions core.TransactionStore
	vault        core.Vault
	tokens       Tokens
	node         chain.ReceiptFetcher
	policy       chain.Policy
	locks        *concurrency.KeyedMutex
}

func validate(op *core.Operation) error {
	if !op.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", core.ErrInvalidArgument, op.Action)
	}

	if !common.IsHexAddress(op.Account) {
		return fmt.Errorf("%w: bad account %q", core.ErrInvalidArgument, op.Account)
	}

	if op.TraceID != "" && !id.ValidTraceID(op.TraceID) {
		return fmt.Errorf("%w: trace id must be a uuid", core.ErrInvalidArgument)
	}

	switch op.Action {
	case core.ActionTypeCompoundRewards:
	case core.ActionTypeWithdraw:
		// 0 withdraws everything
		if op.Amount.IsNegative() {
			return core.ErrInvalidAmount
		}
	default:
		if !op.Amount.IsPositive() {
			return core.ErrInvalidAmount
		}
	}

	if !number.FitsUint256(number.ToBig(op.Amount)) {
		return core.ErrInvalidAmount
	}

	return nil
}

func (s *service) Execute(ctx context.Context, op *core.Operation) (*core.Transaction, error) {
	if err := validate(op); err != nil {
		return nil, err
	}

	if op.TraceID == "" {
		op.TraceID = id.GenTraceID()
	}

	account := common.HexToAddress(op.Account)
	unlock := s.locks.Lock(account.Hex())
	defer unlock()

	tx, err := s.transactions.FindByTraceID(ctx, op.TraceID)
	if err != nil {
		return nil, err
	}

	if tx.ID > 0 {
		if !tx.Finished() {
			err = s.drive(ctx, tx)
		}
		return tx, s.result(tx, err)
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyAmount, op.Amount.String())
	if op.Action == core.ActionTypeOpenCDP {
		extra.Put(core.TransactionKeyCreditScore, op.CreditScore)
	}

	tx = &core.Transaction{
		TraceID: op.TraceID,
		Action:  op.Action,
		Account: account.Hex(),
		Vault:   s.vault.Address().Hex(),
		Amount:  op.Amount,
		Status:  core.TransactionStatusInit,
	}
	tx.SetExtraData(extra)

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	err = s.drive(ctx, tx)
	return tx, s.result(tx, err)
}

// result the error Execute reports for a finished transaction
func (s *service) result(tx *core.Transaction, err error) error {
	if err != nil {
		return err
	}

	if tx.Status == core.TransactionStatusAbort {
		return tx.ErrorCode
	}

	return nil
}

func (s *service) Resume(ctx context.Context, tx *core.Transaction) error {
	if tx.Finished() {
		return nil
	}

	unlock := s.locks.Lock(common.HexToAddress(tx.Account).Hex())
	defer unlock()

	return s.drive(ctx, tx)
}

// drive move tx forward from its recorded status until it completes or aborts.
// Store failures and an unconfirmed act are returned, the record keeps its
// status; vault failures end as an aborted record.
func (s *service) drive(ctx context.Context, tx *core.Transaction) error {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"trace":   tx.TraceID,
		"action":  tx.Action,
		"account": tx.Account,
	})
	ctx = logger.WithContext(ctx, log)

	for !tx.Finished() {
		var err error

		switch tx.Status {
		case core.TransactionStatusInit:
			err = s.approve(ctx, tx)
		case core.TransactionStatusApproving:
			err = s.act(ctx, tx)
		case core.TransactionStatusPending:
			err = s.confirm(ctx, tx)
		default:
			err = fmt.Errorf("unexpected status %s", tx.Status)
		}

		if err == nil {
			continue
		}

		var waiting *inFlightError
		if errors.As(err, &waiting) {
			log.WithError(waiting.cause).Infoln("act not confirmed yet, left pending")
			return waiting.cause
		}

		var failure *stepError
		if !errors.As(err, &failure) {
			log.WithError(err).Errorln("store")
			return err
		}

		log.WithError(failure.cause).Infoln("operation failed at", tx.Status)
		if err := s.abort(ctx, tx, failure.cause); err != nil {
			log.WithError(err).Errorln("abort")
			return err
		}
	}

	operationCounter.WithLabelValues(tx.Action.String(), tx.Status.String()).Inc()
	operationDuration.WithLabelValues(tx.Action.String()).Observe(time.Since(tx.CreatedAt).Seconds())
	return nil
}

// stepError a vault or chain failure that aborts the operation
type stepError struct {
	cause error
}

func (e *stepError) Error() string {
	return e.cause.Error()
}

func fail(err error) error {
	return &stepError{cause: err}
}

// inFlightError the act was sent but its receipt is not observed yet. It may
// still be mined, so the record stays pending for Resume.
type inFlightError struct {
	cause error
}

func (e *inFlightError) Error() string {
	return e.cause.Error()
}

func (e *inFlightError) Unwrap() error {
	return e.cause
}

func (s *service) token(action core.ActionType) core.Token {
	switch action.Approval() {
	case core.ApproveCollateral:
		return s.tokens.Collateral
	case core.ApproveDebt:
		return s.tokens.Debt
	default:
		return nil
	}
}

func (s *service) save(ctx context.Context, tx *core.Transaction, status core.TransactionStatus, extra core.TransactionExtraData) error {
	tx.Status = status
	if extra != nil {
		tx.SetExtraData(extra)
	}

	return s.transactions.Update(ctx, tx)
}

// approve grant the vault exactly the amount it is about to pull and wait for
// the approval to be mined. Actions that pull nothing skip straight ahead.
func (s *service) approve(ctx context.Context, tx *core.Transaction) error {
	token := s.token(tx.Action)
	if token == nil {
		return s.save(ctx, tx, core.TransactionStatusApproving, nil)
	}

	account := common.HexToAddress(tx.Account)
	extra := tx.ExtraData()

	if tx.ApproveHash == "" {
		prior, err := token.Allowance(ctx, account, s.vault.Address())
		if err != nil {
			return fail(err)
		}

		extra.Put(core.TransactionKeyPriorAllowance, prior.String())
		// record the prior allowance before anything can change it
		if err := s.save(ctx, tx, core.TransactionStatusInit, extra); err != nil {
			return err
		}

		result, err := token.Approve(ctx, account, s.vault.Address(), number.ToBig(tx.Amount))
		if err != nil {
			return fail(err)
		}

		tx.ApproveHash = result.Hash.Hex()
		if err := s.save(ctx, tx, core.TransactionStatusInit, nil); err != nil {
			return err
		}
	}

	if _, err := chain.WaitMined(ctx, s.node, common.HexToHash(tx.ApproveHash), s.policy); err != nil {
		return fail(err)
	}

	return s.save(ctx, tx, core.TransactionStatusApproving, nil)
}

func (s *service) submit(ctx context.Context, tx *core.Transaction) (*core.TxResult, error) {
	account := common.HexToAddress(tx.Account)
	amount := number.ToBig(tx.Amount)

	switch tx.Action {
	case core.ActionTypeOpenCDP:
		score := big.NewInt(creditScore(tx.ExtraData()))
		return s.vault.OpenCDP(ctx, account, amount, score)
	case core.ActionTypeRequestLoan:
		return s.vault.RequestLoan(ctx, account, amount)
	case core.ActionTypeRepay:
		return s.vault.MakeRepayment(ctx, account, amount)
	case core.ActionTypeAddCollateral:
		return s.vault.AddCollateral(ctx, account, amount)
	case core.ActionTypeStake:
		return s.vault.StakeLender(ctx, account, amount)
	case core.ActionTypeWithdraw:
		return s.vault.WithdrawLender(ctx, account, amount)
	case core.ActionTypeCompoundRewards:
		return s.vault.CompoundRewards(ctx, account)
	}

	return nil, fmt.Errorf("%w: unknown action %q", core.ErrInvalidArgument, tx.Action)
}

func creditScore(extra core.TransactionExtraData) int64 {
	switch v := extra[core.TransactionKeyCreditScore].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}

	return 0
}

func (s *service) act(ctx context.Context, tx *core.Transaction) error {
	result, err := s.submit(ctx, tx)
	if err != nil {
		return fail(err)
	}

	tx.TxHash = result.Hash.Hex()
	return s.save(ctx, tx, core.TransactionStatusPending, nil)
}

type receiptInfo struct {
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
	Status      uint64 `json:"status"`
}

func (s *service) confirm(ctx context.Context, tx *core.Transaction) error {
	receipt, err := chain.WaitMined(ctx, s.node, common.HexToHash(tx.TxHash), s.policy)
	if err != nil {
		if errors.Is(err, core.ErrTransactionReverted) {
			return fail(err)
		}

		return &inFlightError{cause: err}
	}

	tx.BlockNumber = receipt.BlockNumber.Uint64()

	extra := tx.ExtraData()
	extra.PutStruct(core.TransactionKeyReceipt, receiptInfo{
		BlockNumber: tx.BlockNumber,
		GasUsed:     receipt.GasUsed,
		Status:      receipt.Status,
	})
	s.snapshot(ctx, tx, extra)

	return s.save(ctx, tx, core.TransactionStatusComplete, extra)
}

// snapshot record the position after the operation, best effort
func (s *service) snapshot(ctx context.Context, tx *core.Transaction, extra core.TransactionExtraData) {
	account := common.HexToAddress(tx.Account)
	log := logger.FromContext(ctx)

	switch tx.Action {
	case core.ActionTypeStake, core.ActionTypeWithdraw, core.ActionTypeCompoundRewards:
		position, err := s.vault.GetLenderInfo(ctx, account)
		if err != nil {
			log.WithError(err).Warnln("GetLenderInfo")
			return
		}
		extra.Put(core.TransactionKeyLender, position)
	default:
		cdp, err := s.vault.GetCDPInfo(ctx, account)
		if err != nil {
			log.WithError(err).Warnln("GetCDPInfo")
			return
		}
		extra.Put(core.TransactionKeyCDP, cdp)
	}
}

func (s *service) abort(ctx context.Context, tx *core.Transaction, cause error) error {
	extra := tx.ExtraData()
	extra.Put(core.TransactionKeyError, cause.Error())

	if hash, err := s.rollback(ctx, tx, extra); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("rollback allowance")
	} else if hash != "" {
		extra.Put(core.TransactionKeyRollbackHash, hash)
	}

	tx.ErrorCode = core.CodeOf(cause)
	return s.save(ctx, tx, core.TransactionStatusAbort, extra)
}

// rollback restore the allowance recorded before approve. The rollback
// approve follows the original in nonce order, so it lands even when the
// original was still unconfirmed.
func (s *service) rollback(ctx context.Context, tx *core.Transaction, extra core.TransactionExtraData) (string, error) {
	token := s.token(tx.Action)
	if token == nil || tx.ApproveHash == "" {
		return "", nil
	}

	prior := decimal.Zero
	if v, ok := extra[core.TransactionKeyPriorAllowance].(string); ok {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return "", err
		}
		prior = d
	}

	log := logger.FromContext(ctx).WithField("rollback", id.SubTraceID(tx.TraceID, "rollback"))

	account := common.HexToAddress(tx.Account)
	result, err := token.Approve(ctx, account, s.vault.Address(), number.ToBig(prior))
	if err != nil {
		return "", err
	}

	if _, err := chain.WaitMined(ctx, s.node, result.Hash, s.policy); err != nil {
		log.WithError(err).Warnln("rollback not confirmed")
	}

	log.Infoln("allowance restored to", prior)
	return result.Hash.Hex(), nil
}
