package config

import (
	"strings"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config creditrust config
type Config struct {
	App        App        `json:"app"`
	DB         db.Config  `json:"db"`
	Redis      Redis      `json:"redis"`
	Chain      Chain      `json:"chain"`
	Sim        Sim        `json:"sim"`
	Deployment Deployment `json:"deployment"`
	Pinata     Pinata     `json:"pinata"`
	Cache      Cache      `json:"cache"`
	API        API        `json:"api"`
	// Admins may deploy, anyone may when empty
	Admins []string `json:"admins"`
}

// IsAdmin check if the address is an admin, hex case is ignored
func (c *Config) IsAdmin(address string) bool {
	for _, a := range c.Admins {
		if strings.EqualFold(a, address) {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Location string `json:"location"`
	// Network name of the deployment to use, "localhost" or "baseSepolia"
	Network string `json:"network" valid:"required"`
}

// Redis redis config
type Redis struct {
	Addr string `json:"addr"`
	DB   int    `json:"db"`
}

// Chain json-rpc endpoint and signers
type Chain struct {
	// Backend "sim" or "eth"
	Backend     string   `json:"backend" valid:"in(sim|eth)"`
	RPC         string   `json:"rpc"`
	ChainID     int64    `json:"chain_id"`
	PrivateKeys []string `json:"private_keys"`
	GasLimit    uint64   `json:"gas_limit"`
	// receipt polling
	PollInterval  time.Duration `json:"poll_interval"`
	MaxPolls      int           `json:"max_polls"`
	Confirmations uint64        `json:"confirmations"`
}

// Sim simulated vault parameters
type Sim struct {
	MinCollateralRatio int64 `json:"min_collateral_ratio"`
	LoanTerm           int64 `json:"loan_term"`
	RewardRate         int64 `json:"reward_rate"`
	// seed of the lender assignment randomness
	Seed string `json:"seed"`
}

// Deployment deployment-info.json location
type Deployment struct {
	File string `json:"file"`
}

// Pinata pinning service credentials, pinning is off without a key
type Pinata struct {
	Endpoint  string `json:"endpoint"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// Enabled has credentials
func (p Pinata) Enabled() bool {
	return p.APIKey != "" && p.APISecret != ""
}

// API rest api config
type API struct {
	// Token bearer token of the write routes, writes are open without it
	Token string `json:"token"`
}

// Cache position cache config
type Cache struct {
	// Driver "memory" or "redis"
	Driver string        `json:"driver" valid:"in(memory|redis)"`
	Size   int           `json:"size"`
	TTL    time.Duration `json:"ttl"`
}
