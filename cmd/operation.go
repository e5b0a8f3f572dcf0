package cmd

import (
	"encoding/json"

	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/views"
	"creditrust/pkg/id"
	"creditrust/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}

	cmd.Println(string(data))
}

// operationCmd a command that runs one approve-then-act operation as --from
func operationCmd(use, short string, action core.ActionType) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := provideApp(ctx)
			if err != nil {
				return err
			}

			from, _ := cmd.Flags().GetString("from")
			account, err := param.ParseAddress(from)
			if err != nil {
				return err
			}

			amountStr, _ := cmd.Flags().GetString("amount")
			amount, err := param.Amount(amountStr)
			if err != nil {
				return err
			}

			key, _ := cmd.Flags().GetString("trace")
			if key != "" && !id.ValidTraceID(key) {
				key = id.TraceIDFrom(account.Hex() + ":" + action.String() + ":" + key)
			}

			op := &core.Operation{
				TraceID: key,
				Action:  action,
				Account: account.Hex(),
				Amount:  decimal.NewFromBigInt(number.ToWei(amount, 18), 0),
			}

			if action == core.ActionTypeOpenCDP {
				op.CreditScore, _ = cmd.Flags().GetInt64("score")
			}

			tx, err := a.operations.Execute(ctx, op)
			if tx != nil {
				printJSON(cmd, views.NewTransaction(tx))
			}

			return err
		},
	}

	c.Flags().String("from", "", "acting account, a key of chain.private_keys on the eth backend")
	c.Flags().String("trace", "", "trace id or any idempotency key, reuse it to retry an operation")
	if action != core.ActionTypeCompoundRewards {
		c.Flags().StringP("amount", "a", "", "amount in whole tokens")
	}
	if action == core.ActionTypeOpenCDP {
		c.Flags().Int64("score", 0, "credit score, 300 to 850")
	}

	return c
}
