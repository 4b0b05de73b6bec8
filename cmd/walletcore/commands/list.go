package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletcore/internal/profile"
)

func listCmd() *cobra.Command {
	var hidden bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print accounts and personas per network",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			p, err := wire.Wallet.Profile()
			if err != nil {
				return err
			}
			fmt.Printf("Profile %s (last modified %s)\n", p.Header.ID, p.Header.LastModified.Format("2006-01-02 15:04:05"))
			for _, n := range p.Networks {
				fmt.Printf("\n%s\n", n.NetworkID)
				for _, a := range profile.Accounts(p, n.NetworkID, hidden) {
					mark := ""
					if a.IsHidden() {
						mark = " (hidden)"
					}
					fmt.Printf("  account  %-20q %s  %s%s\n", a.DisplayName, a.Address, a.SecurityState.TransactionSigning.DerivationPath, mark)
				}
				for _, pe := range profile.Personas(p, n.NetworkID, hidden) {
					fmt.Printf("  persona  %-20q %s  %s\n", pe.DisplayName, pe.Address, pe.SecurityState.TransactionSigning.DerivationPath)
				}
				for _, d := range n.AuthorizedDapps {
					fmt.Printf("  dapp     %-20q %s\n", d.DisplayName, d.DappDefinitionAddress)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden entities")
	return cmd
}
