package interfaces

import (
	"context"

	domaintypes "walletcore/internal/domain/types"
)

// CreateAccountRequest describes a new account.
type CreateAccountRequest struct {
	FactorSourceID domaintypes.FactorSourceID
	NetworkID      domaintypes.NetworkID
	DisplayName    string
	// AppearanceHint overrides the gradient picked from the index.
	AppearanceHint *uint8
	// Scheme defaults to CAP-26.
	Scheme domaintypes.DerivationScheme
}

// CreatePersonaRequest describes a new persona.
type CreatePersonaRequest struct {
	FactorSourceID domaintypes.FactorSourceID
	NetworkID      domaintypes.NetworkID
	DisplayName    string
	PersonaData    domaintypes.PersonaData
}

// EntityService derives keys and creates entities. Methods take a profile and
// return a new one; the input is never modified.
type EntityService interface {
	CreateAccount(
		ctx context.Context,
		profile domaintypes.Profile,
		req CreateAccountRequest,
	) (domaintypes.Profile, domaintypes.Account, error)
	CreatePersona(
		ctx context.Context,
		profile domaintypes.Profile,
		req CreatePersonaRequest,
	) (domaintypes.Profile, domaintypes.Persona, error)
	AddAuthenticationSigningKey(
		ctx context.Context,
		profile domaintypes.Profile,
		address domaintypes.Address,
	) (domaintypes.Profile, domaintypes.FactorInstance, error)
}

// FactorSourceService creates factor sources.
type FactorSourceService interface {
	NewDevice(
		m domaintypes.MnemonicWithPassphrase,
		name, model string,
		main bool,
	) (domaintypes.FactorSource, error)
	NewLedger(ctx context.Context, name string) (domaintypes.FactorSource, error)
	NewOffDeviceMnemonic(
		m domaintypes.MnemonicWithPassphrase,
		label string,
	) (domaintypes.FactorSource, error)
	NewTrustedContact(
		account domaintypes.Address,
		name, email string,
	) (domaintypes.FactorSource, error)
}
