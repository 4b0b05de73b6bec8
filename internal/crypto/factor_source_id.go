package crypto

import (
	"golang.org/x/crypto/blake2b"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// FactorSourceIDFromPublicKey hashes the public key at the id path.
func FactorSourceIDFromPublicKey(kind domain.FactorSourceKind, pk domain.PublicKey) domain.FactorSourceID {
	return domain.FactorSourceID{Kind: kind, Body: blake2b.Sum256(pk.Bytes)}
}

// IDPublicKey derives the curve25519 public key at m/44H/1022H/365H.
func IDPublicKey(m domain.MnemonicWithPassphrase) (domain.PublicKey, error) {
	seed, err := Seed(m)
	if err != nil {
		return domain.PublicKey{}, err
	}
	defer Wipe(seed)

	node, err := slip10Derive(seed, types.GetIDPathComponents)
	if err != nil {
		return domain.PublicKey{}, err
	}
	defer node.wipe()
	priv := ed25519FromSLIP10(node)
	defer Wipe(priv)
	return (&PrivateKey{ed: priv}).PublicKey(), nil
}

// FactorSourceIDFromMnemonic returns the content-derived id of a mnemonic
// backed factor source of kind.
func FactorSourceIDFromMnemonic(kind domain.FactorSourceKind, m domain.MnemonicWithPassphrase) (domain.FactorSourceID, error) {
	pk, err := IDPublicKey(m)
	if err != nil {
		return domain.FactorSourceID{}, err
	}
	return FactorSourceIDFromPublicKey(kind, pk), nil
}

// FactorSourceIDFromAddress identifies a trusted contact by the account they
// control.
func FactorSourceIDFromAddress(addr domain.Address) domain.FactorSourceID {
	return domain.FactorSourceID{Kind: types.FactorSourceKindTrustedContact, Body: blake2b.Sum256([]byte(addr))}
}
