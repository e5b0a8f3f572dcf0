package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"creditrust/core"
	"creditrust/pkg/chain"
	"creditrust/service/agreement"
	"creditrust/service/deploy"
	"creditrust/service/operation"
	"creditrust/service/position"
	"creditrust/service/vault/eth"
	"creditrust/service/vault/sim"
	agreementstore "creditrust/store/agreement"
	"creditrust/store/chainstate"
	deploymentstore "creditrust/store/deployment"
	positionstore "creditrust/store/position"
	"creditrust/store/transaction"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/redis/go-redis/v9"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.New(db)
}

func provideAgreementStore(db *db.DB) core.AgreementStore {
	return agreementstore.New(db)
}

func provideDeploymentStore(db *db.DB) core.DeploymentStore {
	return deploymentstore.New(db)
}

func providePositionCache() core.PositionCache {
	if cfg.Cache.Driver == "redis" {
		return positionstore.Redis(provideRedis(), "creditrust:", cfg.Cache.TTL)
	}

	return positionstore.Memory(cfg.Cache.Size, cfg.Cache.TTL)
}

// ------------------chain--------------------------------------

func provideSimConfig() sim.Config {
	c := sim.DefaultConfig()
	c.ChainID = cfg.Chain.ChainID
	c.MinCollateralRatio = cfg.Sim.MinCollateralRatio
	c.LoanTerm = cfg.Sim.LoanTerm
	c.RewardRate = cfg.Sim.RewardRate
	c.Seed = cfg.Sim.Seed
	return c
}

func provideSimChain(db *db.DB) *sim.Chain {
	return sim.New(chainstate.New(db), provideSimConfig())
}

func providePolicy() chain.Policy {
	policy := chain.DefaultPolicy()
	policy.Interval = cfg.Chain.PollInterval
	if policy.MaxInterval < policy.Interval {
		policy.MaxInterval = policy.Interval
	}
	policy.MaxPolls = cfg.Chain.MaxPolls
	policy.Confirmations = cfg.Chain.Confirmations
	return policy
}

// provideDeployment the deployment file, falling back to the latest
// recorded deployment of the configured network
func provideDeployment(ctx context.Context, deployments core.DeploymentStore) (*core.Deployment, error) {
	d, err := deploy.Load(cfg.Deployment.File)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warnln("load deployment file, use the recorded one")

		if d, err = deployments.Latest(ctx, cfg.App.Network); err != nil {
			if errors.Is(err, core.ErrNoDeployment) {
				return nil, fmt.Errorf("%w: run deploy first", core.ErrDeploymentInvalid)
			}
			return nil, err
		}
	}

	if !strings.EqualFold(d.Network, cfg.App.Network) {
		return nil, fmt.Errorf("%w: deployment is for %s, configured network is %s", core.ErrDeploymentInvalid, d.Network, cfg.App.Network)
	}

	return d, nil
}

// backend the vault and its tokens bound to one deployment
type backend struct {
	node       core.Chain
	vault      core.Vault
	collateral core.Token
	debt       core.Token
}

func provideBackend(ctx context.Context, db *db.DB, d *core.Deployment) (*backend, error) {
	if cfg.Chain.Backend == "eth" {
		return provideEthBackend(ctx, d)
	}

	c := provideSimChain(db)
	if err := deploy.Verify(ctx, c, d); err != nil {
		return nil, err
	}

	vault, err := c.Vault(ctx, d.VaultAddress())
	if err != nil {
		return nil, err
	}

	collateral, err := c.Token(ctx, d.CollateralTokenAddress())
	if err != nil {
		return nil, err
	}

	debt, err := c.Token(ctx, d.DebtTokenAddress())
	if err != nil {
		return nil, err
	}

	return &backend{node: c, vault: vault, collateral: collateral, debt: debt}, nil
}

func provideEthBackend(ctx context.Context, d *core.Deployment) (*backend, error) {
	if cfg.Chain.RPC == "" {
		return nil, errors.New("chain.rpc is required by the eth backend")
	}

	client, err := ethclient.DialContext(ctx, cfg.Chain.RPC)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Chain.RPC, err)
	}

	if err := deploy.Verify(ctx, client, d); err != nil {
		return nil, err
	}

	keys, err := chain.NewKeyring(cfg.Chain.PrivateKeys)
	if err != nil {
		return nil, err
	}

	signer := eth.NewSigner(keys, d.ChainID, cfg.Chain.GasLimit)
	return &backend{
		node:       client,
		vault:      eth.NewVault(client, d.VaultAddress(), signer),
		collateral: eth.NewToken(client, d.CollateralTokenAddress(), signer),
		debt:       eth.NewToken(client, d.DebtTokenAddress(), signer),
	}, nil
}

// ------------------service------------------------------------

func provideOperationService(transactions core.TransactionStore, b *backend) core.OperationService {
	return operation.New(
		transactions,
		b.vault,
		operation.Tokens{Collateral: b.collateral, Debt: b.debt},
		b.node,
		providePolicy(),
	)
}

func providePositionService(b *backend) core.PositionService {
	return position.New(b.vault, providePositionCache())
}

func provideAgreementService(agreements core.AgreementStore) core.AgreementService {
	var pinner core.Pinner
	if cfg.Pinata.Enabled() {
		pinner = agreement.NewPinata(cfg.Pinata.Endpoint, cfg.Pinata.APIKey, cfg.Pinata.APISecret)
	}

	return agreement.New(agreements, pinner)
}

// app everything a vault command needs, bound to the active deployment
type app struct {
	db           *db.DB
	deployment   *core.Deployment
	backend      *backend
	transactions core.TransactionStore
	operations   core.OperationService
	positions    core.PositionService
}

func provideApp(ctx context.Context) (*app, error) {
	database := provideDatabase()

	d, err := provideDeployment(ctx, provideDeploymentStore(database))
	if err != nil {
		return nil, err
	}

	b, err := provideBackend(ctx, database, d)
	if err != nil {
		return nil, err
	}

	transactions := provideTransactionStore(database)
	return &app{
		db:           database,
		deployment:   d,
		backend:      b,
		transactions: transactions,
		operations:   provideOperationService(transactions, b),
		positions:    providePositionService(b),
	}, nil
}
