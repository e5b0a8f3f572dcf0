package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const vaultABIJSON = `[
{"type":"function","name":"openCDP","stateMutability":"nonpayable","inputs":[{"name":"collateralAmount","type":"uint256"},{"name":"creditScore","type":"uint256"}],"outputs":[]},
{"type":"function","name":"requestLoan","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"makeRepayment","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"addCollateral","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"stakeLender","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"withdrawLender","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"compoundRewards","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"getCDPInfo","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[
	{"name":"collateralAmount","type":"uint256"},
	{"name":"debtAmount","type":"uint256"},
	{"name":"creditScore","type":"uint256"},
	{"name":"apr","type":"uint256"},
	{"name":"dueDate","type":"uint256"},
	{"name":"isActive","type":"bool"},
	{"name":"assignedLender","type":"address"}]},
{"type":"function","name":"getLenderInfo","stateMutability":"view","inputs":[{"name":"lender","type":"address"}],"outputs":[
	{"name":"stakedAmount","type":"uint256"},
	{"name":"accruedRewards","type":"uint256"},
	{"name":"reputation","type":"uint256"},
	{"name":"isActive","type":"bool"}]},
{"type":"function","name":"getTotalDebtWithInterest","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"calculateAccruedInterest","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getHealthFactor","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"MIN_COLLATERAL_RATIO","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

const erc20ABIJSON = `[
{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]}
]`

var (
	// VaultABI CDPVault abi
	VaultABI = mustParse(vaultABIJSON)
	// ERC20ABI mock token abi
	ERC20ABI = mustParse(erc20ABIJSON)
)

func mustParse(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}

	return parsed
}
