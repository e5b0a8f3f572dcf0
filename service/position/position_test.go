package position

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"creditrust/core"
	"creditrust/service/vault/sim"
	"creditrust/store/chainstate"
	positionstore "creditrust/store/position"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	lender   = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// flakyVault a vault whose node can be taken offline
type flakyVault struct {
	core.Vault
	offline bool
}

var errOffline = errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")

func (v *flakyVault) GetCDPInfo(ctx context.Context, owner common.Address) (*core.CDP, error) {
	if v.offline {
		return nil, errOffline
	}
	return v.Vault.GetCDPInfo(ctx, owner)
}

func (v *flakyVault) GetLenderInfo(ctx context.Context, addr common.Address) (*core.LenderPosition, error) {
	if v.offline {
		return nil, errOffline
	}
	return v.Vault.GetLenderInfo(ctx, addr)
}

func setup(t *testing.T) (*flakyVault, core.PositionService) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	chain := sim.New(chainstate.NewMemory(), sim.DefaultConfig()).WithClock(func() time.Time { return now })

	collateral, _, err := chain.DeployToken(ctx, deployer, "Mock Ether", "mETH", 18)
	require.Nil(t, err)
	debt, _, err := chain.DeployToken(ctx, deployer, "Mock USD Coin", "mUSDC", 18)
	require.Nil(t, err)
	vault, _, err := chain.DeployVault(ctx, deployer, collateral.Address(), debt.Address())
	require.Nil(t, err)

	_, err = collateral.Mint(ctx, deployer, alice, ether(1000))
	require.Nil(t, err)
	_, err = debt.Mint(ctx, deployer, lender, ether(5000))
	require.Nil(t, err)

	_, err = collateral.Approve(ctx, alice, vault.Address(), ether(1000))
	require.Nil(t, err)
	_, err = vault.OpenCDP(ctx, alice, ether(1000), big.NewInt(720))
	require.Nil(t, err)

	_, err = debt.Approve(ctx, lender, vault.Address(), ether(5000))
	require.Nil(t, err)
	_, err = vault.StakeLender(ctx, lender, ether(5000))
	require.Nil(t, err)

	_, err = vault.RequestLoan(ctx, alice, ether(400))
	require.Nil(t, err)

	flaky := &flakyVault{Vault: vault}
	return flaky, New(flaky, positionstore.Memory(64, time.Hour))
}

func TestBorrowing(t *testing.T) {
	ctx := context.Background()
	vault, positions := setup(t)

	snapshot, stale, err := positions.Borrowing(ctx, alice)
	require.Nil(t, err)
	assert.False(t, stale)
	assert.True(t, snapshot.CDP.IsActive)
	assert.Equal(t, ether(400).String(), snapshot.TotalDebtWithInterest.String())
	// 1000 collateral against 400 debt at a 120% minimum
	assert.True(t, snapshot.HealthFactor.GreaterThan(decimal.New(1, 18)))

	vault.offline = true
	cached, stale, err := positions.Borrowing(ctx, alice)
	require.Nil(t, err)
	assert.True(t, stale)
	assert.Equal(t, snapshot.TotalDebtWithInterest.String(), cached.TotalDebtWithInterest.String())

	// nothing cached for an address never read
	_, _, err = positions.Borrowing(ctx, lender)
	assert.Equal(t, errOffline, err)
}

func TestLendingAndView(t *testing.T) {
	ctx := context.Background()
	vault, positions := setup(t)

	view, err := positions.View(ctx, lender)
	require.Nil(t, err)
	assert.False(t, view.Stale)
	assert.Nil(t, view.Borrowing)
	require.NotNil(t, view.Lending)
	assert.Equal(t, ether(5000).String(), view.Lending.Position.StakedAmount.String())

	vault.offline = true
	view, err = positions.View(ctx, lender)
	require.Nil(t, err)
	assert.True(t, view.Stale)
	require.NotNil(t, view.Lending)
}

func TestBorrowingInactive(t *testing.T) {
	ctx := context.Background()
	_, positions := setup(t)

	snapshot, stale, err := positions.Borrowing(ctx, lender)
	require.Nil(t, err)
	assert.False(t, stale)
	assert.False(t, snapshot.CDP.IsActive)
}
