package deploy

import (
	"context"
	"fmt"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
)

// Verify check that d belongs to node's chain and that every recorded
// contract still has code. A redeploy or a restarted dev chain leaves a
// stale file behind, which fails here instead of at the first vault call.
func Verify(ctx context.Context, node core.Chain, d *core.Deployment) error {
	if err := d.Validate(); err != nil {
		return err
	}

	chainID, err := node.ChainID(ctx)
	if err != nil {
		return err
	}

	if chainID.Int64() != d.ChainID {
		return fmt.Errorf("%w: deployment is for chain %d, node is on %d", core.ErrDeploymentInvalid, d.ChainID, chainID.Int64())
	}

	contracts := []struct {
		name    string
		address string
	}{
		{"collateralToken", d.Contracts.CollateralToken},
		{"debtToken", d.Contracts.DebtToken},
		{"cdpVault", d.Contracts.CDPVault},
		{"creditAgent", d.Contracts.CreditAgent},
		{"x402Router", d.Contracts.X402Router},
	}

	for _, c := range contracts {
		if c.address == "" {
			continue
		}

		code, err := node.CodeAt(ctx, common.HexToAddress(c.address), nil)
		if err != nil {
			return err
		}

		if len(code) == 0 {
			return fmt.Errorf("%w: no contract at %s (%s)", core.ErrDeploymentInvalid, c.address, c.name)
		}
	}

	return nil
}
