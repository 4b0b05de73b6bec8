package types

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when a derivation path string is malformed.
	ErrParse = errors.New("malformed derivation path")
	// ErrUnsupportedPath is returned when a path cannot be derived on the requested curve.
	ErrUnsupportedPath = errors.New("unsupported derivation path")
	// ErrInvalidSeed is returned for mnemonics that fail BIP-39 validation.
	ErrInvalidSeed = errors.New("invalid mnemonic")
	// ErrFactorSourceNotFound is returned when a profile has no factor source with the given id.
	ErrFactorSourceNotFound = errors.New("factor source not found")
	// ErrAddressCollision is returned when a derived address already exists in the profile.
	ErrAddressCollision = errors.New("address already exists in profile")
	// ErrDecryption is returned for any failure to open an encrypted snapshot.
	ErrDecryption = errors.New("wrong password or corrupted snapshot")

	ErrFactorSourceNotDerivable   = errors.New("factor source cannot derive keys")
	ErrDuplicateFactorSource      = errors.New("factor source already exists")
	ErrIndexRegression            = errors.New("derivation index counter cannot decrease")
	ErrIndexExhausted             = errors.New("derivation index space exhausted")
	ErrNetworkNotFound            = errors.New("network has no accounts")
	ErrEntityNotFound             = errors.New("entity not found")
	ErrInvalidProfile             = errors.New("invalid profile")
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")
	ErrUnsupportedSecurityState   = errors.New("unsupported security state")
	ErrNoProfile                  = errors.New("no profile")
	ErrNoDevice                   = errors.New("no hardware device transport configured")
)

// ParseError reports why a derivation path string was rejected.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse derivation path %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// UnsupportedPathError reports a path/curve combination the engine cannot derive.
type UnsupportedPathError struct {
	Path  DerivationPath
	Curve Curve
}

func (e *UnsupportedPathError) Error() string {
	return fmt.Sprintf("path %s (%s) cannot be derived on curve %s", e.Path, e.Path.Scheme, e.Curve)
}

func (e *UnsupportedPathError) Unwrap() error { return ErrUnsupportedPath }

// FactorSourceNotFoundError names the factor source id that was looked up.
type FactorSourceNotFoundError struct {
	ID FactorSourceID
}

func (e *FactorSourceNotFoundError) Error() string {
	return fmt.Sprintf("factor source %s not found", e.ID)
}

func (e *FactorSourceNotFoundError) Unwrap() error { return ErrFactorSourceNotFound }

// AddressCollisionError names the address that already exists.
type AddressCollisionError struct {
	Address Address
}

func (e *AddressCollisionError) Error() string {
	return fmt.Sprintf("address %s already exists in profile", e.Address)
}

func (e *AddressCollisionError) Unwrap() error { return ErrAddressCollision }
