package cmd

import (
	"encoding/json"
	"os"

	"creditrust/core"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

var agreementCmd = &cobra.Command{
	Use:   "agreement",
	Short: "content addressed loan agreements",
}

var agreementPutCmd = &cobra.Command{
	Use:   "put <file.json>",
	Short: "store a loan agreement and print its cid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var doc core.LoanAgreement
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		agreement, err := provideAgreementService(provideAgreementStore(database)).Put(cmd.Context(), &doc)
		if err != nil {
			return err
		}

		cmd.Println("cid:", agreement.CID)
		if agreement.PinnedCID != "" {
			url := "https://gateway.pinata.cloud/ipfs/" + agreement.PinnedCID
			cmd.Println("pinned:", url)
			qrcode.Fprint(cmd.OutOrStdout(), url)
		}

		return nil
	},
}

var agreementGetCmd = &cobra.Command{
	Use:   "get <cid>",
	Short: "print a verified loan agreement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		doc, err := provideAgreementService(provideAgreementStore(database)).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printJSON(cmd, doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agreementCmd)
	agreementCmd.AddCommand(agreementPutCmd, agreementGetCmd)
}
