package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"walletcore/internal/domain"
)

func factorSourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factor-source",
		Short: "Manage factor sources",
	}
	cmd.AddCommand(factorSourceListCmd(), addLedgerCmd(), addOffDeviceCmd())
	return cmd
}

func factorSourceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print factor sources and their next derivation indices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			p, err := wire.Wallet.Profile()
			if err != nil {
				return err
			}
			for _, fs := range p.FactorSources {
				fmt.Printf("%s\n  name: %s", fs.ID, fs.Hint.Name)
				if fs.Hint.Model != "" {
					fmt.Printf("  model: %s", fs.Hint.Model)
				}
				fmt.Printf("  added: %s\n", fs.Common.AddedOn.Format("2006-01-02"))
				for _, n := range fs.NextIndices {
					fmt.Printf("  %-10s next account %d, next persona %d\n", n.NetworkID, n.ForAccount, n.ForIdentity)
				}
			}
			return nil
		},
	}
}

func addLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-ledger <name>",
		Short: "Add the hardware wallet connected through --bridge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wire.Device == nil {
				return fmt.Errorf("no device bridge configured. use --bridge")
			}
			if err := openWallet(); err != nil {
				return err
			}
			fs, err := wire.Wallet.AddLedger(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Ledger added: %s (%s)\n", fs.ID, fs.Hint.Model)
			return nil
		},
	}
}

func addOffDeviceCmd() *cobra.Command {
	var (
		mnemonic   string
		passphrase string
	)
	cmd := &cobra.Command{
		Use:   "add-off-device <label>",
		Short: "Add a mnemonic that is kept off this device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			m := domain.MnemonicWithPassphrase{Mnemonic: strings.Join(strings.Fields(mnemonic), " "), Passphrase: passphrase}
			fs, err := wire.Wallet.AddOffDeviceMnemonic(cmd.Context(), m, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Off-device mnemonic added: %s\n", fs.ID)
			fmt.Println("It is not stored; pass --off-device-mnemonic when creating accounts from it.")
			return nil
		},
	}
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "the BIP-39 mnemonic")
	cmd.Flags().StringVar(&passphrase, "bip39-passphrase", "", "optional BIP-39 passphrase")
	_ = cmd.MarkFlagRequired("mnemonic")
	return cmd
}
