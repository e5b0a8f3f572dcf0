package cmd

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

// maintain command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "generate secp256k1 signing keys for chain.private_keys",
	Run: func(cmd *cobra.Command, args []string) {
		n, _ := cmd.Flags().GetInt("count")

		for i := 0; i < n; i++ {
			key, err := crypto.GenerateKey()
			if err != nil {
				panic(err)
			}

			cmd.Println("address:", crypto.PubkeyToAddress(key.PublicKey).Hex())
			cmd.Println("private key:", "0x"+hex.EncodeToString(crypto.FromECDSA(key)))
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().IntP("count", "n", 1, "number of keys")
}
