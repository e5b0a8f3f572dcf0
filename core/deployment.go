package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx/types"
)

// DeploymentVersion current deployment file schema version
const DeploymentVersion = 2

// Contracts addresses of one deployment
type Contracts struct {
	CollateralToken string `json:"collateralToken" valid:"required"`
	DebtToken       string `json:"debtToken" valid:"required"`
	CDPVault        string `json:"cdpVault" valid:"required"`
	CreditAgent     string `json:"creditAgent,omitempty"`
	X402Router      string `json:"x402Router,omitempty"`
}

// DeploymentParams constructor parameters recorded with the deployment
type DeploymentParams struct {
	FeeRate        int64  `json:"feeRate"`
	VRFCoordinator string `json:"vrfCoordinator,omitempty"`
	MinPayment     string `json:"minPayment,omitempty"`
	MaxPayment     string `json:"maxPayment,omitempty"`
}

// Deployment versioned configuration of the contracts a client talks to.
// It is passed explicitly into every vault client instead of being read
// from a shared file at call time.
type Deployment struct {
	// Version schema version of the file
	Version int `json:"version"`
	// Revision bumped by every redeploy on the same network
	Revision  int64            `json:"revision"`
	Network   string           `json:"network" valid:"required"`
	ChainID   int64            `json:"chainId" valid:"required"`
	Contracts Contracts        `json:"contracts"`
	Params    DeploymentParams `json:"params"`
	Deployer  string           `json:"deployer"`
	Timestamp time.Time        `json:"timestamp"`
}

// Validate check schema version and addresses
func (d *Deployment) Validate() error {
	if d.Version < 1 || d.Version > DeploymentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrDeploymentInvalid, d.Version)
	}

	if _, err := govalidator.ValidateStruct(d); err != nil {
		return fmt.Errorf("%w: %s", ErrDeploymentInvalid, err.Error())
	}

	required := map[string]string{
		"collateralToken": d.Contracts.CollateralToken,
		"debtToken":       d.Contracts.DebtToken,
		"cdpVault":        d.Contracts.CDPVault,
	}
	for name, addr := range required {
		if !common.IsHexAddress(addr) || common.HexToAddress(addr) == (common.Address{}) {
			return fmt.Errorf("%w: %s is not a valid address", ErrDeploymentInvalid, name)
		}
	}

	return nil
}

// VaultAddress cdp vault address
func (d *Deployment) VaultAddress() common.Address {
	return common.HexToAddress(d.Contracts.CDPVault)
}

// CollateralTokenAddress collateral token address
func (d *Deployment) CollateralTokenAddress() common.Address {
	return common.HexToAddress(d.Contracts.CollateralToken)
}

// DebtTokenAddress debt token address
func (d *Deployment) DebtTokenAddress() common.Address {
	return common.HexToAddress(d.Contracts.DebtToken)
}

// DeploymentRecord deployment history row
type DeploymentRecord struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Network   string         `sql:"size:64;index:idx_deployments_network" json:"network"`
	ChainID   int64          `json:"chain_id"`
	Vault     string         `sql:"size:42;unique_index:idx_deployments_vault" json:"vault"`
	Data      types.JSONText `sql:"type:TEXT" json:"data"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ErrNoDeployment no deployment recorded for the network
var ErrNoDeployment = errors.New("no deployment recorded")

// DeploymentStore deployment history
type DeploymentStore interface {
	Create(ctx context.Context, deployment *Deployment) error
	Latest(ctx context.Context, network string) (*Deployment, error)
	List(ctx context.Context, network string) ([]*Deployment, error)
}
