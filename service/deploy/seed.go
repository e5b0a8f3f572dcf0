package deploy

import (
	"context"
	"math/big"
	"time"

	"creditrust/core"
	"creditrust/service/vault/sim"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
)

// Plan what Seed deploys and funds
type Plan struct {
	Network  string
	Deployer common.Address
	// receive Mint of both tokens
	Accounts []common.Address
	Mint     *big.Int
	// debt tokens minted straight into the vault
	Liquidity *big.Int
	Params    core.DeploymentParams
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// DefaultPlan the amounts the local seeding always used
func DefaultPlan(network string, deployer common.Address, accounts []common.Address) Plan {
	return Plan{
		Network:   network,
		Deployer:  deployer,
		Accounts:  accounts,
		Mint:      ether(10000),
		Liquidity: ether(100000),
		Params: core.DeploymentParams{
			FeeRate:        250,
			VRFCoordinator: deployer.Hex(),
			MinPayment:     new(big.Int).Div(ether(1), big.NewInt(100)).String(),
			MaxPayment:     ether(1000).String(),
		},
	}
}

// Seeder deploys and funds a fresh set of contracts on the simulated chain
type Seeder struct {
	chain *sim.Chain
	clock func() time.Time
}

// NewSeeder new seeder
func NewSeeder(chain *sim.Chain) *Seeder {
	return &Seeder{chain: chain, clock: time.Now}
}

type creditAgentParams struct {
	FeeRate        int64  `json:"feeRate"`
	VRFCoordinator string `json:"vrfCoordinator"`
}

type routerParams struct {
	CreditAgent string `json:"creditAgent"`
	MinPayment  string `json:"minPayment"`
	MaxPayment  string `json:"maxPayment"`
}

// Seed deploy tokens, vault, credit agent and router, mint to plan.Accounts
// and fund the vault. The result supersedes previous (may be nil) with the
// next revision.
func (s *Seeder) Seed(ctx context.Context, plan Plan, previous *core.Deployment) (*core.Deployment, error) {
	log := logger.FromContext(ctx).WithField("network", plan.Network)

	chainID, err := s.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	collateral, _, err := s.chain.DeployToken(ctx, plan.Deployer, "Mock Ether", "mETH", 18)
	if err != nil {
		return nil, err
	}
	log.Infoln("collateral token", collateral.Address().Hex())

	debt, _, err := s.chain.DeployToken(ctx, plan.Deployer, "Mock USD Coin", "mUSDC", 18)
	if err != nil {
		return nil, err
	}
	log.Infoln("debt token", debt.Address().Hex())

	vault, _, err := s.chain.DeployVault(ctx, plan.Deployer, collateral.Address(), debt.Address())
	if err != nil {
		return nil, err
	}
	log.Infoln("cdp vault", vault.Address().Hex())

	agent, _, err := s.chain.DeployContract(ctx, plan.Deployer, core.ContractKindCreditAgent, "CreditAgent", creditAgentParams{
		FeeRate:        plan.Params.FeeRate,
		VRFCoordinator: plan.Params.VRFCoordinator,
	})
	if err != nil {
		return nil, err
	}

	router, _, err := s.chain.DeployContract(ctx, plan.Deployer, core.ContractKindRouter, "x402Router", routerParams{
		CreditAgent: agent.Hex(),
		MinPayment:  plan.Params.MinPayment,
		MaxPayment:  plan.Params.MaxPayment,
	})
	if err != nil {
		return nil, err
	}

	for _, account := range plan.Accounts {
		if plan.Mint == nil || plan.Mint.Sign() <= 0 {
			break
		}

		if _, err := collateral.Mint(ctx, plan.Deployer, account, plan.Mint); err != nil {
			return nil, err
		}

		if _, err := debt.Mint(ctx, plan.Deployer, account, plan.Mint); err != nil {
			return nil, err
		}
	}

	if plan.Liquidity != nil && plan.Liquidity.Sign() > 0 {
		if _, err := debt.Mint(ctx, plan.Deployer, vault.Address(), plan.Liquidity); err != nil {
			return nil, err
		}
	}

	d := &core.Deployment{
		Version:  core.DeploymentVersion,
		Revision: 1,
		Network:  plan.Network,
		ChainID:  chainID.Int64(),
		Contracts: core.Contracts{
			CollateralToken: collateral.Address().Hex(),
			DebtToken:       debt.Address().Hex(),
			CDPVault:        vault.Address().Hex(),
			CreditAgent:     agent.Hex(),
			X402Router:      router.Hex(),
		},
		Params:    plan.Params,
		Deployer:  plan.Deployer.Hex(),
		Timestamp: s.clock().UTC(),
	}

	if previous != nil && previous.Network == plan.Network {
		d.Revision = previous.Revision + 1
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	log.Infoln("seeded revision", d.Revision)
	return d, nil
}
