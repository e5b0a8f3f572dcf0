package rest

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"creditrust/core"
	"creditrust/handler/render"
	"creditrust/service/position"
	"creditrust/service/vault/sim"
	"creditrust/store/chainstate"
	positionstore "creditrust/store/position"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// recordOperations records the operations it is asked to run
type recordOperations struct {
	ops []*core.Operation
	err error
}

func (s *recordOperations) Execute(ctx context.Context, op *core.Operation) (*core.Transaction, error) {
	s.ops = append(s.ops, op)
	if s.err != nil {
		return nil, s.err
	}

	return &core.Transaction{
		ID:      1,
		TraceID: "0b8c3e2a-6d3f-4a3b-9a57-3f1f6b2c8d10",
		Action:  op.Action,
		Account: op.Account,
		Amount:  op.Amount,
		Status:  core.TransactionStatusComplete,
	}, nil
}

func (s *recordOperations) Resume(ctx context.Context, tx *core.Transaction) error {
	return nil
}

type noAgreements struct{}

func (noAgreements) Put(ctx context.Context, agreement *core.LoanAgreement) (*core.Agreement, error) {
	return nil, core.ErrInvalidArgument
}

func (noAgreements) Get(ctx context.Context, cid string) (*core.LoanAgreement, error) {
	return nil, core.ErrAgreementNotFound
}

type noTransactions struct {
	core.TransactionStore
}

func (noTransactions) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	return &core.Transaction{}, nil
}

type fixture struct {
	handler http.Handler
	ops     *recordOperations
	vault   *sim.Vault
}

func setup(t *testing.T) *fixture {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	chain := sim.New(chainstate.NewMemory(), sim.DefaultConfig()).WithClock(func() time.Time {
		return now
	})

	collateral, _, err := chain.DeployToken(ctx, deployer, "Mock Ether", "mETH", 18)
	require.Nil(t, err)
	debt, _, err := chain.DeployToken(ctx, deployer, "Mock USDC", "mUSDC", 18)
	require.Nil(t, err)
	vault, _, err := chain.DeployVault(ctx, deployer, collateral.Address(), debt.Address())
	require.Nil(t, err)

	_, err = debt.Mint(ctx, deployer, vault.Address(), ether(5000))
	require.Nil(t, err)
	_, err = collateral.Mint(ctx, deployer, alice, ether(1000))
	require.Nil(t, err)
	_, err = collateral.Approve(ctx, alice, vault.Address(), ether(1000))
	require.Nil(t, err)
	_, err = vault.OpenCDP(ctx, alice, ether(1000), big.NewInt(720))
	require.Nil(t, err)

	deployment := &core.Deployment{
		Version: core.DeploymentVersion,
		Network: "localhost",
		ChainID: 31337,
		Contracts: core.Contracts{
			CollateralToken: collateral.Address().Hex(),
			DebtToken:       debt.Address().Hex(),
			CDPVault:        vault.Address().Hex(),
		},
	}

	ops := &recordOperations{}
	positions := position.New(vault, positionstore.Memory(16, time.Minute))
	h := Handle(deployment, vault, debt, ops, positions, noAgreements{}, noTransactions{})

	return &fixture{
		handler: render.Envelope(h),
		ops:     ops,
		vault:   vault,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)

	var resp map[string]interface{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestGetCDP(t *testing.T) {
	f := setup(t)

	code, resp := f.do(t, "GET", "/cdps/"+alice.Hex(), "")
	require.Equal(t, http.StatusOK, code)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "1000", data["collateral"])
	assert.Equal(t, "0", data["debt"])
	assert.Equal(t, true, data["is_active"])
	assert.Equal(t, float64(720), data["credit_score"])
	assert.Equal(t, false, data["stale"])
}

func TestGetCDPBadAddress(t *testing.T) {
	f := setup(t)

	code, resp := f.do(t, "GET", "/cdps/alice", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, float64(core.ErrInvalidArgument), resp["code"])
}

func TestRequestLoan(t *testing.T) {
	f := setup(t)

	code, resp := f.do(t, "POST", "/cdps/"+alice.Hex()+"/loans", `{"amount":"400.5"}`)
	require.Equal(t, http.StatusOK, code)

	require.Len(t, f.ops.ops, 1)
	op := f.ops.ops[0]
	assert.Equal(t, core.ActionTypeRequestLoan, op.Action)
	assert.Equal(t, alice.Hex(), op.Account)
	assert.Equal(t, "400500000000000000000", op.Amount.String())

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "complete", data["status"])
	assert.Equal(t, "400.5", data["amount"])
}

func TestOpenCDP(t *testing.T) {
	f := setup(t)

	code, _ := f.do(t, "POST", "/cdps", `{"account":"`+alice.Hex()+`","amount":100,"credit_score":"650"}`)
	require.Equal(t, http.StatusOK, code)

	require.Len(t, f.ops.ops, 1)
	assert.Equal(t, core.ActionTypeOpenCDP, f.ops.ops[0].Action)
	assert.Equal(t, int64(650), f.ops.ops[0].CreditScore)
}

func TestOperationRejected(t *testing.T) {
	f := setup(t)
	f.ops.err = core.NewRevertError(core.ReasonInsufficientCollateralRatio)

	code, resp := f.do(t, "POST", "/cdps/"+alice.Hex()+"/loans", `{"amount":10}`)
	assert.Equal(t, http.StatusPreconditionFailed, code)
	assert.Equal(t, float64(core.ErrInsufficientCollateralRatio), resp["code"])
	assert.Equal(t, core.ReasonInsufficientCollateralRatio, resp["hint"])
	assert.Nil(t, resp["data"])
}

func TestVault(t *testing.T) {
	f := setup(t)

	code, resp := f.do(t, "GET", "/vault", "")
	require.Equal(t, http.StatusOK, code)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, f.vault.Address().Hex(), data["address"])
	assert.Equal(t, float64(12000), data["min_collateral_ratio"])
	assert.Equal(t, "5000", data["liquidity"])
}

func TestNotFound(t *testing.T) {
	f := setup(t)

	code, _ := f.do(t, "GET", "/agreements/bafkreigh2akiscaildc", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, "GET", "/transactions/0b8c3e2a-6d3f-4a3b-9a57-3f1f6b2c8d10", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestIdempotencyKey(t *testing.T) {
	f := setup(t)

	body := `{"amount":1,"trace_id":"order-42"}`
	for i := 0; i < 2; i++ {
		code, _ := f.do(t, "POST", "/lenders/"+alice.Hex()+"/withdraw", body)
		require.Equal(t, http.StatusOK, code)
	}

	require.Len(t, f.ops.ops, 2)
	assert.Equal(t, core.ActionTypeWithdraw, f.ops.ops[0].Action)
	assert.Len(t, f.ops.ops[0].TraceID, 36)
	assert.Equal(t, f.ops.ops[0].TraceID, f.ops.ops[1].TraceID)
}
