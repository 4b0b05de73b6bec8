package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Re-derive stored keys and addresses from the mnemonics on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			p, err := wire.Wallet.Profile()
			if err != nil {
				return err
			}
			mismatches, err := wire.Entities.VerifyProfile(p)
			if err != nil {
				return err
			}
			if len(mismatches) == 0 {
				fmt.Println("all keys verified")
				return nil
			}
			for _, m := range mismatches {
				fmt.Printf("%s  %s: %s\n", m.Address, m.Path, m.Reason)
			}
			return fmt.Errorf("%d mismatches", len(mismatches))
		},
	}
}
