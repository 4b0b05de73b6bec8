package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"walletcore/internal/app"
	"walletcore/internal/domain"
	"walletcore/internal/services/factorsource"
)

func initCmd() *cobra.Command {
	var (
		mnemonic      string
		bip39Pass     string
		deviceName    string
		deviceModel   string
		wordCount     int
		showGenerated bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a profile protected by the password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errPasswordRequired
			}
			var m *domain.MnemonicWithPassphrase
			if mnemonic != "" {
				m = &domain.MnemonicWithPassphrase{Mnemonic: strings.Join(strings.Fields(mnemonic), " "), Passphrase: bip39Pass}
			} else {
				generated, err := factorsource.Generate(wordCount)
				if err != nil {
					return err
				}
				generated.Passphrase = bip39Pass
				m = &generated
			}
			if deviceName == "" {
				deviceName = app.HostDevice().Description
			}

			p, used, err := wire.Wallet.Create(cmd.Context(), password, deviceName, deviceModel, m)
			if err != nil {
				return err
			}
			fmt.Printf("Profile %s created.\n", p.Header.ID)
			fmt.Printf("Factor source: %s\n", p.FactorSources[0].ID)
			if mnemonic == "" && showGenerated {
				fmt.Printf("Write down your mnemonic and keep it offline:\n\n  %s\n\n", used.Mnemonic)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "restore from this BIP-39 mnemonic instead of generating one")
	cmd.Flags().StringVar(&bip39Pass, "bip39-passphrase", "", "optional BIP-39 passphrase")
	cmd.Flags().StringVar(&deviceName, "device-name", "", "name of this device (default host name)")
	cmd.Flags().StringVar(&deviceModel, "device-model", "", "model of this device")
	cmd.Flags().IntVar(&wordCount, "words", factorsource.DefaultWordCount, "length of a generated mnemonic")
	cmd.Flags().BoolVar(&showGenerated, "show-mnemonic", true, "print a generated mnemonic once")
	return cmd
}
