package cmd

import (
	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/views"

	"github.com/spf13/cobra"
)

var lenderCmd = &cobra.Command{
	Use:   "lender",
	Short: "lender operations",
}

var lenderInfoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "show the lender position of address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		addr, err := param.ParseAddress(args[0])
		if err != nil {
			return err
		}

		a, err := provideApp(ctx)
		if err != nil {
			return err
		}

		snapshot, stale, err := a.positions.Lending(ctx, addr)
		if err != nil {
			return err
		}

		printJSON(cmd, views.NewLender(snapshot, stale))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lenderCmd)

	lenderCmd.AddCommand(
		operationCmd("stake", "approve and stake debt tokens", core.ActionTypeStake),
		operationCmd("withdraw", "withdraw stake and rewards, amount 0 withdraws everything", core.ActionTypeWithdraw),
		operationCmd("compound", "restake accrued rewards", core.ActionTypeCompoundRewards),
		lenderInfoCmd,
	)
}
