package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the profile and the mnemonics of its factor sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("this deletes every key on this device; pass --yes to confirm")
			}
			if err := openWallet(); err != nil {
				return err
			}
			if err := wire.Wallet.Reset(); err != nil {
				return err
			}
			fmt.Println("wallet reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
