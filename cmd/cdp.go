package cmd

import (
	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/views"

	"github.com/spf13/cobra"
)

var cdpCmd = &cobra.Command{
	Use:   "cdp",
	Short: "borrower operations",
}

var cdpInfoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "show the cdp of address",
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

		snapshot, stale, err := a.positions.Borrowing(ctx, addr)
		if err != nil {
			return err
		}

		printJSON(cmd, views.NewCDP(snapshot, stale))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cdpCmd)

	cdpCmd.AddCommand(
		operationCmd("open", "approve collateral and open a cdp", core.ActionTypeOpenCDP),
		operationCmd("borrow", "draw debt tokens against the cdp", core.ActionTypeRequestLoan),
		operationCmd("repay", "approve debt tokens and repay, interest first", core.ActionTypeRepay),
		operationCmd("add-collateral", "approve and add collateral", core.ActionTypeAddCollateral),
		cdpInfoCmd,
	)
}
