package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/profile"
)

func connectorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connector",
		Short: "Manage linked browser connectors",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <connection-password-hex> <name>",
			Short: "Link a browser connector",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := openWallet(); err != nil {
					return err
				}
				_, err := wire.Wallet.Update(cmd.Context(), func(p domain.Profile) (domain.Profile, error) {
					return profile.AddLinkedConnector(p, types.P2PLink{ConnectionPassword: args[0], DisplayName: args[1]})
				})
				if err != nil {
					return err
				}
				fmt.Println("linked")
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <connection-password-hex>",
			Short: "Unlink a browser connector",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := openWallet(); err != nil {
					return err
				}
				_, err := wire.Wallet.Update(cmd.Context(), func(p domain.Profile) (domain.Profile, error) {
					return profile.RemoveLinkedConnector(p, args[0]), nil
				})
				return err
			},
		},
	)
	return cmd
}
