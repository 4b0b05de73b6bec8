package domain

import (
	interfaces "walletcore/internal/domain/interfaces"
	types "walletcore/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	NetworkID              = types.NetworkID
	Curve                  = types.Curve
	PublicKey              = types.PublicKey
	Address                = types.Address
	DerivationScheme       = types.DerivationScheme
	DerivationPath         = types.DerivationPath
	EntityKind             = types.EntityKind
	KeyRole                = types.KeyRole
	FactorSourceKind       = types.FactorSourceKind
	FactorSourceID         = types.FactorSourceID
	FactorSource           = types.FactorSource
	FactorInstance         = types.FactorInstance
	SecurityState          = types.SecurityState
	Account                = types.Account
	Persona                = types.Persona
	PersonaData            = types.PersonaData
	Network                = types.Network
	AuthorizedDapp         = types.AuthorizedDapp
	Profile                = types.Profile
	ProfileSnapshot        = types.ProfileSnapshot
	EncryptedSnapshot      = types.EncryptedSnapshot
	DeviceInfo             = types.DeviceInfo
	HardwareDeviceInfo     = types.HardwareDeviceInfo
	MnemonicWithPassphrase = types.MnemonicWithPassphrase
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	MnemonicStore        = interfaces.MnemonicStore
	SnapshotStore        = interfaces.SnapshotStore
	DeviceTransport      = interfaces.DeviceTransport
	EntityService        = interfaces.EntityService
	FactorSourceService  = interfaces.FactorSourceService
	CreateAccountRequest = interfaces.CreateAccountRequest
	CreatePersonaRequest = interfaces.CreatePersonaRequest
)
