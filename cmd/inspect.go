package cmd

import (
	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/views"
	"creditrust/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

// inspect reads the vault directly, no cache fallback
var inspectCmd = &cobra.Command{
	Use:   "inspect <address>",
	Short: "print cdp, lender position, health factor and MIN_COLLATERAL_RATIO of address",
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

		vault := a.backend.vault

		minRatio, err := vault.MinCollateralRatio(ctx)
		if err != nil {
			return err
		}

		cdp, err := vault.GetCDPInfo(ctx, addr)
		if err != nil {
			return err
		}

		cmd.Println("vault:", vault.Address().Hex(), "revision", a.deployment.Revision)
		cmd.Println("MIN_COLLATERAL_RATIO:", minRatio.String(), "bps")
		cmd.Println("cdp active:", cdp.IsActive)
		cmd.Println("  collateral:", views.Human(cdp.CollateralAmount))
		cmd.Println("  debt:", views.Human(cdp.DebtAmount))
		cmd.Println("  credit score:", cdp.CreditScore, "apr:", cdp.APR, "bps")

		if cdp.IsActive {
			total, err := vault.GetTotalDebtWithInterest(ctx, addr)
			if err != nil {
				return err
			}

			health, err := vault.GetHealthFactor(ctx, addr)
			if err != nil {
				return err
			}

			cmd.Println("  total debt with interest:", number.FromWei(total, 18))
			cmd.Println("  health factor:", number.FromWei(health, 18))
			cmd.Println("  due date:", cdp.DueDate, "lender:", cdp.AssignedLender)
		}

		lender, err := vault.GetLenderInfo(ctx, addr)
		if err != nil {
			return err
		}

		cmd.Println("lender active:", lender.IsActive)
		cmd.Println("  staked:", views.Human(lender.StakedAmount))
		cmd.Println("  rewards:", views.Human(lender.AccruedRewards))
		cmd.Println("  reputation:", lender.Reputation)

		tokens := []core.Token{a.backend.collateral, a.backend.debt}
		for i, name := range []string{"collateral", "debt"} {
			balance, err := tokens[i].BalanceOf(ctx, addr)
			if err != nil {
				return err
			}
			cmd.Println(name, "balance:", number.FromWei(balance, 18))
		}

		if show, _ := cmd.Flags().GetBool("qrcode"); show {
			url := explorerURL(a.deployment.Network, addr)
			cmd.Println(url)
			qrcode.Fprint(cmd.OutOrStdout(), url)
		}

		return nil
	},
}

// explorerURL address page on the network explorer, the bare address for
// local networks
func explorerURL(network string, addr common.Address) string {
	switch network {
	case "baseSepolia":
		return "https://sepolia.basescan.org/address/" + addr.Hex()
	case "base":
		return "https://basescan.org/address/" + addr.Hex()
	}

	return addr.Hex()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("qrcode", false, "print the explorer url as a qr code")
}
