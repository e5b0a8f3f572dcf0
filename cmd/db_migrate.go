package cmd

import (
	"creditrust/service/deploy"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate database tables, optionally importing a deployment file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return err
		}

		// deployments made by other tooling, e.g. hardhat on baseSepolia
		file, _ := cmd.Flags().GetString("import")
		if file == "" {
			return nil
		}

		d, err := deploy.Load(file)
		if err != nil {
			return err
		}

		if err := provideDeploymentStore(database).Create(ctx, d); err != nil {
			return err
		}

		cmd.Println("imported", d.Network, "vault", d.Contracts.CDPVault)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("import", "", "deployment-info.json to record in the deployment history")
}
