package views

import (
	"creditrust/core"
)

// Vault vault parameters read live from the contract
type Vault struct {
	Address            string `json:"address"`
	ChainID            int64  `json:"chain_id"`
	Network            string `json:"network"`
	MinCollateralRatio int64  `json:"min_collateral_ratio"`
	CollateralToken    string `json:"collateral_token"`
	DebtToken          string `json:"debt_token"`
	Liquidity          string `json:"liquidity"`
}

// Deployment active deployment with its revision
type Deployment struct {
	*core.Deployment
}
