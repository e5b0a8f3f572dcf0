package deploy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creditrust/core"
	"creditrust/pkg/chain"
	"creditrust/service/vault/sim"
	"creditrust/store/chainstate"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob      = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

func seed(t *testing.T, chain *sim.Chain, previous *core.Deployment) *core.Deployment {
	plan := DefaultPlan("localhost", deployer, []common.Address{alice, bob})
	d, err := NewSeeder(chain).Seed(context.Background(), plan, previous)
	require.Nil(t, err)
	return d
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	chain := sim.New(chainstate.NewMemory(), sim.DefaultConfig())

	d := seed(t, chain, nil)
	assert.Equal(t, core.DeploymentVersion, d.Version)
	assert.Equal(t, int64(1), d.Revision)
	assert.Equal(t, int64(31337), d.ChainID)
	assert.NotEmpty(t, d.Contracts.CreditAgent)
	assert.NotEmpty(t, d.Contracts.X402Router)
	require.Nil(t, Verify(ctx, chain, d))

	collateral, err := chain.Token(ctx, d.CollateralTokenAddress())
	require.Nil(t, err)
	debt, err := chain.Token(ctx, d.DebtTokenAddress())
	require.Nil(t, err)

	for _, account := range []common.Address{alice, bob} {
		balance, err := collateral.BalanceOf(ctx, account)
		require.Nil(t, err)
		assert.Equal(t, ether(10000).String(), balance.String())

		balance, err = debt.BalanceOf(ctx, account)
		require.Nil(t, err)
		assert.Equal(t, ether(10000).String(), balance.String())
	}

	liquidity, err := debt.BalanceOf(ctx, d.VaultAddress())
	require.Nil(t, err)
	assert.Equal(t, ether(100000).String(), liquidity.String())

	vault, err := chain.Vault(ctx, d.VaultAddress())
	require.Nil(t, err)
	ratio, err := vault.MinCollateralRatio(ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(12000), ratio.Int64())

	// redeploying yields fresh addresses and the next revision
	next := seed(t, chain, d)
	assert.Equal(t, int64(2), next.Revision)
	assert.NotEqual(t, d.Contracts.CDPVault, next.Contracts.CDPVault)
}

func TestVerifyStale(t *testing.T) {
	ctx := context.Background()
	d := seed(t, sim.New(chainstate.NewMemory(), sim.DefaultConfig()), nil)

	// a restarted dev chain knows nothing about the old addresses
	fresh := sim.New(chainstate.NewMemory(), sim.DefaultConfig())
	err := Verify(ctx, fresh, d)
	assert.Equal(t, core.ErrDeploymentInvalid, core.CodeOf(err))

	cfg := sim.DefaultConfig()
	cfg.ChainID = 84532
	other := sim.New(chainstate.NewMemory(), cfg)
	err = Verify(ctx, other, d)
	assert.Equal(t, core.ErrDeploymentInvalid, core.CodeOf(err))
}

func TestSaveLoad(t *testing.T) {
	d := seed(t, sim.New(chainstate.NewMemory(), sim.DefaultConfig()), nil)

	path := filepath.Join(t.TempDir(), "deployment-info.json")
	require.Nil(t, Save(path, d))

	loaded, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, d.Contracts, loaded.Contracts)
	assert.Equal(t, d.Revision, loaded.Revision)
	assert.True(t, d.Timestamp.Equal(loaded.Timestamp))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.Nil(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployment-info.json")
	legacy := `{
  "network": "localhost",
  "chainId": 31337,
  "contracts": {
    "collateralToken": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
    "debtToken": "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
    "cdpVault": "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"
  },
  "deployer": "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
  "timestamp": "2024-01-01T00:00:00.000Z"
}`
	require.Nil(t, os.WriteFile(path, []byte(legacy), 0o644))

	d, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, 1, d.Version)
	assert.Equal(t, common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"), d.VaultAddress())
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.Nil(t, os.WriteFile(bad, []byte(`{"version":1,"network":"localhost","chainId":31337,"contracts":{"collateralToken":"0x0000000000000000000000000000000000000000","debtToken":"x","cdpVault":"y"}}`), 0o644))
	_, err := Load(bad)
	assert.Equal(t, core.ErrDeploymentInvalid, core.CodeOf(err))

	future := filepath.Join(dir, "future.json")
	require.Nil(t, os.WriteFile(future, []byte(`{"version":99,"network":"localhost","chainId":31337}`), 0o644))
	_, err = Load(future)
	assert.Equal(t, core.ErrDeploymentInvalid, core.CodeOf(err))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestAuthorize(t *testing.T) {
	// hardhat account 0
	keys, err := chain.NewKeyring([]string{"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"})
	require.Nil(t, err)
	none, err := chain.NewKeyring(nil)
	require.Nil(t, err)

	isAdmin := func(address string) bool {
		return strings.EqualFold(address, "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	}

	assert.Nil(t, Authorize(nil, none, alice))
	assert.Nil(t, Authorize(isAdmin, keys, deployer))

	// naming an admin without holding its key
	assert.Equal(t, core.ErrOperationForbidden, core.CodeOf(Authorize(isAdmin, none, deployer)))
	assert.Equal(t, core.ErrOperationForbidden, core.CodeOf(Authorize(isAdmin, nil, deployer)))
	assert.Equal(t, core.ErrOperationForbidden, core.CodeOf(Authorize(isAdmin, keys, alice)))
}
