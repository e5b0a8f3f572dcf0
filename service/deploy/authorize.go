package deploy

import (
	"fmt"

	"creditrust/core"
	"creditrust/pkg/chain"

	"github.com/ethereum/go-ethereum/common"
)

// Authorize a deployer must pass isAdmin and its signing key must be in keys,
// naming an admin address is not enough. A nil isAdmin lets anyone deploy.
func Authorize(isAdmin func(address string) bool, keys *chain.Keyring, deployer common.Address) error {
	if isAdmin == nil {
		return nil
	}

	if !isAdmin(deployer.Hex()) {
		return fmt.Errorf("%w: %s is not an admin", core.ErrOperationForbidden, deployer.Hex())
	}

	if keys == nil {
		return fmt.Errorf("%w: no key held for %s", core.ErrOperationForbidden, deployer.Hex())
	}

	if _, ok := keys.Key(deployer); !ok {
		return fmt.Errorf("%w: no key held for %s", core.ErrOperationForbidden, deployer.Hex())
	}

	return nil
}
