package config

import (
	"os"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/config"
	"github.com/joho/godotenv"
)

// environment variables shared with the hardhat and dashboard tooling
const (
	envRPCURL       = "BASE_SEPOLIA_RPC_URL"
	envPrivateKey   = "PRIVATE_KEY"
	envPinataKey    = "PINATA_API_KEY"
	envPinataSecret = "PINATA_API_SECRET"
	envAPIToken     = "CREDITRUST_API_TOKEN"
)

// Load load config file
func Load(cfgFile string, cfg *Config) error {
	// a missing .env is fine
	_ = godotenv.Load()

	config.AutomaticLoadEnv("CREDITRUST")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	loadEnv(cfg)
	defaults(cfg)

	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		return err
	}

	return nil
}

func loadEnv(cfg *Config) {
	if v := os.Getenv(envRPCURL); v != "" && cfg.Chain.RPC == "" {
		cfg.Chain.RPC = v
	}

	if v := os.Getenv(envPrivateKey); v != "" {
		cfg.Chain.PrivateKeys = append(cfg.Chain.PrivateKeys, v)
	}

	if v := os.Getenv(envPinataKey); v != "" && cfg.Pinata.APIKey == "" {
		cfg.Pinata.APIKey = v
	}

	if v := os.Getenv(envPinataSecret); v != "" && cfg.Pinata.APISecret == "" {
		cfg.Pinata.APISecret = v
	}

	if v := os.Getenv(envAPIToken); v != "" && cfg.API.Token == "" {
		cfg.API.Token = v
	}
}

func defaults(cfg *Config) {
	if cfg.App.Network == "" {
		cfg.App.Network = "localhost"
	}

	if cfg.Chain.Backend == "" {
		cfg.Chain.Backend = "sim"
	}

	if cfg.Chain.ChainID == 0 {
		cfg.Chain.ChainID = 31337
	}

	if cfg.Chain.GasLimit == 0 {
		cfg.Chain.GasLimit = 500000
	}

	if cfg.Chain.PollInterval == 0 {
		cfg.Chain.PollInterval = time.Second
	}

	if cfg.Chain.MaxPolls == 0 {
		cfg.Chain.MaxPolls = 30
	}

	if cfg.Sim.MinCollateralRatio == 0 {
		cfg.Sim.MinCollateralRatio = 12000
	}

	if cfg.Sim.LoanTerm == 0 {
		cfg.Sim.LoanTerm = 30 * 24 * 3600
	}

	if cfg.Sim.RewardRate == 0 {
		cfg.Sim.RewardRate = 500
	}

	if cfg.Deployment.File == "" {
		cfg.Deployment.File = "deployment-info.json"
	}

	if cfg.Pinata.Endpoint == "" {
		cfg.Pinata.Endpoint = "https://api.pinata.cloud"
	}

	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = "memory"
	}

	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 1024
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
}
