package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/profile"
)

// factorSourceFor returns the factor source named by flag, or the main
// device factor source when flag is empty.
func factorSourceFor(p domain.Profile, flag string) (domain.FactorSourceID, error) {
	if flag != "" {
		return types.ParseFactorSourceID(flag)
	}
	for _, fs := range p.FactorSources {
		if fs.Kind() == types.FactorSourceKindDevice && fs.HasFlag(types.FactorSourceFlagMain) {
			return fs.ID, nil
		}
	}
	return domain.FactorSourceID{}, fmt.Errorf("no main device factor source; pass --factor-source")
}

// provideOffDevice hands an off-device mnemonic to the wallet for this run.
func provideOffDevice(mnemonic, passphrase string) error {
	if mnemonic == "" {
		return nil
	}
	_, err := wire.Wallet.ProvideMnemonic(domain.MnemonicWithPassphrase{
		Mnemonic:   strings.Join(strings.Fields(mnemonic), " "),
		Passphrase: passphrase,
	})
	return err
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(accountCreateCmd(), accountRenameCmd(), accountHideCmd())
	return cmd
}

func accountCreateCmd() *cobra.Command {
	var (
		factorSource string
		olympia      bool
		appearance   int
		offDevice    string
		offDevicePw  string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Derive the next account of a factor source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			if err := provideOffDevice(offDevice, offDevicePw); err != nil {
				return err
			}
			p, err := wire.Wallet.Profile()
			if err != nil {
				return err
			}
			id, err := factorSourceFor(p, factorSource)
			if err != nil {
				return err
			}

			req := domain.CreateAccountRequest{FactorSourceID: id, NetworkID: cfg.Network, DisplayName: args[0]}
			if olympia {
				req.Scheme = types.SchemeBIP44Olympia
			}
			if appearance >= 0 {
				hint := uint8(appearance)
				req.AppearanceHint = &hint
			}
			if id.Kind.IsHardware() {
				fmt.Println("Confirm on your hardware wallet...")
			}
			a, err := wire.Wallet.CreateAccount(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Account created.\nAddress: %s\nPath:    %s\n", a.Address, a.SecurityState.TransactionSigning.DerivationPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&factorSource, "factor-source", "", "factor source id (default main device)")
	cmd.Flags().BoolVar(&olympia, "olympia", false, "derive a legacy secp256k1 account (hardware wallets only)")
	cmd.Flags().IntVar(&appearance, "appearance", -1, "gradient index instead of one picked from the derivation index")
	cmd.Flags().StringVar(&offDevice, "off-device-mnemonic", "", "mnemonic of an off-device factor source")
	cmd.Flags().StringVar(&offDevicePw, "off-device-passphrase", "", "BIP-39 passphrase of the off-device mnemonic")
	return cmd
}

func accountRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <address> <name>",
		Short: "Change an account's display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			_, err := wire.Wallet.Update(cmd.Context(), func(p domain.Profile) (domain.Profile, error) {
				return profile.RenameAccount(p, domain.Address(args[0]), args[1])
			})
			return err
		},
	}
}

func accountHideCmd() *cobra.Command {
	var unhideAll bool
	cmd := &cobra.Command{
		Use:   "hide [address]",
		Short: "Hide an account; its derivation index stays used",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openWallet(); err != nil {
				return err
			}
			if !unhideAll && len(args) == 0 {
				return fmt.Errorf("address required")
			}
			_, err := wire.Wallet.Update(cmd.Context(), func(p domain.Profile) (domain.Profile, error) {
				if unhideAll {
					return profile.UnhideAllEntities(p), nil
				}
				return profile.HideAccount(p, domain.Address(args[0]))
			})
			return err
		},
	}
	cmd.Flags().BoolVar(&unhideAll, "unhide-all", false, "show every hidden account and persona again")
	return cmd
}
