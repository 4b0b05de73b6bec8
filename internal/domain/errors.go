package domain

import types "walletcore/internal/domain/types"

// Error types re-exported from the types subpackage.
type (
	ParseError                = types.ParseError
	UnsupportedPathError      = types.UnsupportedPathError
	FactorSourceNotFoundError = types.FactorSourceNotFoundError
	AddressCollisionError     = types.AddressCollisionError
)

// Sentinel errors re-exported from the types subpackage.
var (
	ErrParse                      = types.ErrParse
	ErrUnsupportedPath            = types.ErrUnsupportedPath
	ErrInvalidSeed                = types.ErrInvalidSeed
	ErrFactorSourceNotFound       = types.ErrFactorSourceNotFound
	ErrAddressCollision           = types.ErrAddressCollision
	ErrDecryption                 = types.ErrDecryption
	ErrFactorSourceNotDerivable   = types.ErrFactorSourceNotDerivable
	ErrDuplicateFactorSource      = types.ErrDuplicateFactorSource
	ErrIndexRegression            = types.ErrIndexRegression
	ErrIndexExhausted             = types.ErrIndexExhausted
	ErrNetworkNotFound            = types.ErrNetworkNotFound
	ErrEntityNotFound             = types.ErrEntityNotFound
	ErrInvalidProfile             = types.ErrInvalidProfile
	ErrUnsupportedSnapshotVersion = types.ErrUnsupportedSnapshotVersion
	ErrUnsupportedSecurityState   = types.ErrUnsupportedSecurityState
	ErrNoProfile                  = types.ErrNoProfile
	ErrNoDevice                   = types.ErrNoDevice
)
