package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/profile"
)

func deriveCmd() *cobra.Command {
	var factorSource string
	cmd := &cobra.Command{
		Use:   "derive <path>",
		Short: "Print the public key at a derivation path",
		Long: "Print the public key at a CAP-26 (m/44H/1022H/1H/525H/1460H/0H) or\n" +
			"Olympia (m/44H/1022H/0H/0/0H) derivation path, with the address it\n" +
			"controls for transaction signing keys.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := types.ParseDerivationPath(args[0])
			if err != nil {
				return err
			}
			if err := openWallet(); err != nil {
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
			if _, err := profile.FactorSource(p, id); err != nil {
				return err
			}

			var pk domain.PublicKey
			if id.Kind.IsHardware() {
				if wire.Device == nil {
					return fmt.Errorf("no device bridge configured. use --bridge")
				}
				keys, err := wire.Device.DerivePublicKeys(cmd.Context(), id, []domain.DerivationPath{path})
				if err != nil {
					return err
				}
				pk = keys[0]
			} else {
				m, ok, err := wire.Mnemonics.LoadMnemonic(id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("mnemonic of %s is not on this device", id)
				}
				if pk, err = crypto.DerivePublicKey(m, path, path.Curve()); err != nil {
					return err
				}
			}

			fmt.Printf("Path:        %s\n", path)
			fmt.Printf("Curve:       %s\n", pk.Curve)
			fmt.Printf("Public key:  %s\n", pk.Hex())
			fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(pk))
			if path.KeyRole != types.KeyRoleAuthenticationSigning {
				network, kind := path.NetworkID, path.EntityKind
				if path.Scheme == types.SchemeBIP44Olympia {
					network, kind = cfg.Network, types.EntityKindAccount
				}
				addr, err := crypto.DeriveAddress(network, kind, pk)
				if err != nil {
					return err
				}
				fmt.Printf("Address:     %s\n", addr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&factorSource, "factor-source", "", "factor source id (default main device)")
	return cmd
}
