package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	defaults(&cfg)

	assert.Equal(t, "localhost", cfg.App.Network)
	assert.Equal(t, "sim", cfg.Chain.Backend)
	assert.Equal(t, int64(31337), cfg.Chain.ChainID)
	assert.Equal(t, time.Second, cfg.Chain.PollInterval)
	assert.Equal(t, int64(12000), cfg.Sim.MinCollateralRatio)
	assert.Equal(t, "deployment-info.json", cfg.Deployment.File)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.False(t, cfg.Pinata.Enabled())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(envRPCURL, "https://sepolia.base.org")
	t.Setenv(envPrivateKey, "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	t.Setenv(envPinataKey, "key")
	t.Setenv(envPinataSecret, "secret")
	t.Setenv(envAPIToken, "s3cret")

	cfg := Config{Chain: Chain{RPC: "http://127.0.0.1:8545"}}
	loadEnv(&cfg)

	// an explicit config wins over the environment
	assert.Equal(t, "http://127.0.0.1:8545", cfg.Chain.RPC)
	assert.Len(t, cfg.Chain.PrivateKeys, 1)
	assert.True(t, cfg.Pinata.Enabled())
	assert.Equal(t, "s3cret", cfg.API.Token)
}

func TestIsAdmin(t *testing.T) {
	cfg := Config{Admins: []string{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"}}
	assert.True(t, cfg.IsAdmin("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"))
	assert.False(t, cfg.IsAdmin("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"))
}
