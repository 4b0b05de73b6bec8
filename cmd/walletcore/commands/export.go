package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		exportPassword string
		plaintext      bool
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the profile to a file, encrypted unless --plaintext",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			var (
				data []byte
				err  error
			)
			if plaintext {
				data, err = wire.Wallet.ExportPlaintext()
			} else {
				if !cmd.Flags().Changed("export-password") {
					exportPassword = password
				}
				data, err = wire.Wallet.Export(exportPassword)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o600); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&exportPassword, "export-password", "", "password of the exported file (default --password)")
	cmd.Flags().BoolVar(&plaintext, "plaintext", false, "write the unencrypted snapshot")
	return cmd
}
