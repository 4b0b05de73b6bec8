package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"walletcore/internal/snapshot"
)

func importCmd() *cobra.Command {
	var exportPassword string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the profile with an exported one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errPasswordRequired
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			kind, err := snapshot.Inspect(data)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("export-password") {
				exportPassword = password
			}

			exists, err := wire.Wallet.Exists()
			if err != nil {
				return err
			}
			if exists {
				if err := openWallet(); err != nil {
					return err
				}
			}
			p, err := wire.Wallet.Import(cmd.Context(), data, exportPassword)
			if err != nil {
				return err
			}
			if !exists && exportPassword != password {
				if err := wire.Wallet.ChangePassword(cmd.Context(), password); err != nil {
					return err
				}
			}
			fmt.Printf("imported %s profile %s: %d accounts, %d personas\n",
				kind, p.Header.ID,
				p.Header.ContentHint.NumberOfAccountsOnAllNetworksInTotal,
				p.Header.ContentHint.NumberOfPersonasOnAllNetworksInTotal)
			fmt.Println("Device mnemonics are not part of an export; restore them with init --mnemonic on a fresh home.")
			return nil
		},
	}
	cmd.Flags().StringVar(&exportPassword, "export-password", "", "password of the exported file (default --password)")
	return cmd
}
