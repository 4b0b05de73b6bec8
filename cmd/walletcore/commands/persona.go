package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

func personaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Manage personas",
	}
	cmd.AddCommand(personaCreateCmd())
	return cmd
}

func personaCreateCmd() *cobra.Command {
	var (
		factorSource string
		givenNames   string
		familyName   string
		emails       []string
		phones       []string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Derive the next persona; the network needs an account first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			data := types.EmptyPersonaData()
			if givenNames != "" || familyName != "" {
				data.Name = &types.IdentifiedName{
					ID:    uuid.New(),
					Value: types.PersonaDataName{Variant: "western", GivenNames: givenNames, FamilyName: familyName},
				}
			}
			for _, e := range emails {
				data.EmailAddresses = append(data.EmailAddresses, types.IdentifiedEntry{ID: uuid.New(), Value: e})
			}
			for _, ph := range phones {
				data.PhoneNumbers = append(data.PhoneNumbers, types.IdentifiedEntry{ID: uuid.New(), Value: ph})
			}

			pe, err := wire.Wallet.CreatePersona(cmd.Context(), domain.CreatePersonaRequest{
				FactorSourceID: id,
				NetworkID:      cfg.Network,
				DisplayName:    args[0],
				PersonaData:    data,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Persona created.\nAddress: %s\nPath:    %s\n", pe.Address, pe.SecurityState.TransactionSigning.DerivationPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&factorSource, "factor-source", "", "factor source id (default main device)")
	cmd.Flags().StringVar(&givenNames, "given-names", "", "given names")
	cmd.Flags().StringVar(&familyName, "family-name", "", "family name")
	cmd.Flags().StringSliceVar(&emails, "email", nil, "email address (repeatable)")
	cmd.Flags().StringSliceVar(&phones, "phone", nil, "phone number (repeatable)")
	return cmd
}
