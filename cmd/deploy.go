package cmd

import (
	"encoding/json"
	"errors"

	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/pkg/chain"
	"creditrust/service/deploy"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

// hardhat default accounts 0..3
var defaultAccounts = []string{
	"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
	"0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
	"0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
	"0x90F79bf6EB2c4f870365E785982E1f101E93b906",
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "deploy and seed tokens, vault, credit agent and router",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		useSim, _ := cmd.Flags().GetBool("sim")
		if !useSim && cfg.Chain.Backend != "sim" {
			return errors.New("contract deployment to a live network goes through hardhat, run with --sim for the simulated vault")
		}

		database := provideDatabase()
		defer database.Close()

		deployments := provideDeploymentStore(database)

		accountStrs, _ := cmd.Flags().GetStringSlice("accounts")
		accounts := make([]common.Address, 0, len(accountStrs))
		for _, s := range accountStrs {
			addr, err := param.ParseAddress(s)
			if err != nil {
				return err
			}
			accounts = append(accounts, addr)
		}

		deployerStr, _ := cmd.Flags().GetString("deployer")
		deployer, err := param.ParseAddress(deployerStr)
		if err != nil {
			return err
		}

		keys, err := chain.NewKeyring(cfg.Chain.PrivateKeys)
		if err != nil {
			return err
		}

		var isAdmin func(string) bool
		if len(cfg.Admins) > 0 {
			isAdmin = cfg.IsAdmin
		}

		if err := deploy.Authorize(isAdmin, keys, deployer); err != nil {
			return err
		}

		previous, err := deployments.Latest(ctx, cfg.App.Network)
		if err != nil {
			if !errors.Is(err, core.ErrNoDeployment) {
				return err
			}
			previous = nil
		}

		plan := deploy.DefaultPlan(cfg.App.Network, deployer, accounts)
		d, err := deploy.NewSeeder(provideSimChain(database)).Seed(ctx, plan, previous)
		if err != nil {
			return err
		}

		if err := deployments.Create(ctx, d); err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.Deployment.File
		}

		if err := deploy.Save(output, d); err != nil {
			return err
		}

		log.Infoln("deployment saved to", output)

		data, _ := json.MarshalIndent(d, "", "  ")
		cmd.Println(string(data))
		return nil
	},
}

var deploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "list recorded deployments of the configured network",
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		list, err := provideDeploymentStore(database).List(cmd.Context(), cfg.App.Network)
		if err != nil {
			return err
		}

		for _, d := range list {
			cmd.Printf("rev %d  %s  vault %s  %s\n", d.Revision, d.Network, d.Contracts.CDPVault, d.Timestamp.Format("2006-01-02 15:04:05"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(deploymentsCmd)

	deployCmd.Flags().Bool("sim", false, "deploy to the simulated vault")
	deployCmd.Flags().String("deployer", defaultAccounts[0], "deployer address")
	deployCmd.Flags().StringSlice("accounts", defaultAccounts, "accounts minted both tokens")
	deployCmd.Flags().StringP("output", "o", "", "deployment file, default is deployment.file")
}
