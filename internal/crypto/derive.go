package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/blake2b"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// PrivateKey is a transiently derived signing key. Wipe it after use.
type PrivateKey struct {
	path domain.DerivationPath
	ed   ed25519.PrivateKey
	secp *btcec.PrivateKey
}

// Curve returns the curve the key lives on.
func (k *PrivateKey) Curve() domain.Curve { return k.path.Curve() }

// Path returns the derivation path the key was derived at.
func (k *PrivateKey) Path() domain.DerivationPath { return k.path }

// PublicKey returns the matching public key, compressed for secp256k1.
func (k *PrivateKey) PublicKey() domain.PublicKey {
	if k.secp != nil {
		return domain.PublicKey{Curve: types.Secp256k1, Bytes: k.secp.PubKey().SerializeCompressed()}
	}
	pub := k.ed.Public().(ed25519.PublicKey)
	return domain.PublicKey{Curve: types.Curve25519, Bytes: append([]byte(nil), pub...)}
}

// Sign signs msg. ed25519 signs msg directly; secp256k1 produces a 65-byte
// recoverable compact signature over BLAKE2b-256(msg).
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	switch {
	case k.secp != nil:
		hash := blake2b.Sum256(msg)
		return ecdsa.SignCompact(k.secp, hash[:], true), nil
	case k.ed != nil:
		return ed25519.Sign(k.ed, msg), nil
	default:
		return nil, fmt.Errorf("private key wiped")
	}
}

// Wipe zeroes the key material. The key is unusable afterwards.
func (k *PrivateKey) Wipe() {
	if k.secp != nil {
		k.secp.Zero()
		k.secp = nil
	}
	if k.ed != nil {
		Wipe(k.ed)
		k.ed = nil
	}
}

// Verify checks sig over msg against pk, mirroring PrivateKey.Sign.
func Verify(pk domain.PublicKey, msg, sig []byte) bool {
	switch pk.Curve {
	case types.Curve25519:
		return len(pk.Bytes) == ed25519.PublicKeySize && ed25519.Verify(ed25519.PublicKey(pk.Bytes), msg, sig)
	case types.Secp256k1:
		want, err := btcec.ParsePubKey(pk.Bytes)
		if err != nil {
			return false
		}
		hash := blake2b.Sum256(msg)
		got, _, err := ecdsa.RecoverCompact(sig, hash[:])
		return err == nil && got.IsEqual(want)
	default:
		return false
	}
}

// DerivePrivateKey derives the private key at path from the mnemonic.
func DerivePrivateKey(m domain.MnemonicWithPassphrase, path domain.DerivationPath) (*PrivateKey, error) {
	seed, err := Seed(m)
	if err != nil {
		return nil, err
	}
	defer Wipe(seed)
	return derivePrivateKey(seed, path)
}

func derivePrivateKey(seed []byte, path domain.DerivationPath) (*PrivateKey, error) {
	switch path.Curve() {
	case types.Curve25519:
		node, err := slip10Derive(seed, path.Components())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer node.wipe()
		return &PrivateKey{path: path, ed: ed25519FromSLIP10(node)}, nil
	case types.Secp256k1:
		priv, err := bip32Derive(seed, path.Components())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &PrivateKey{path: path, secp: priv}, nil
	default:
		return nil, &types.UnsupportedPathError{Path: path, Curve: path.Curve()}
	}
}

// DerivePublicKey derives the public key at path on curve. The curve must be
// the one the path scheme implies.
func DerivePublicKey(m domain.MnemonicWithPassphrase, path domain.DerivationPath, curve domain.Curve) (domain.PublicKey, error) {
	keys, err := DerivePublicKeys(m, []domain.DerivationPath{path}, curve)
	if err != nil {
		return domain.PublicKey{}, err
	}
	return keys[0], nil
}

// DerivePublicKeys derives several public keys, stretching the mnemonic once.
func DerivePublicKeys(m domain.MnemonicWithPassphrase, paths []domain.DerivationPath, curve domain.Curve) ([]domain.PublicKey, error) {
	for _, p := range paths {
		if p.Curve() != curve {
			return nil, &types.UnsupportedPathError{Path: p, Curve: curve}
		}
	}
	seed, err := Seed(m)
	if err != nil {
		return nil, err
	}
	defer Wipe(seed)

	out := make([]domain.PublicKey, 0, len(paths))
	for _, p := range paths {
		priv, err := derivePrivateKey(seed, p)
		if err != nil {
			return nil, err
		}
		out = append(out, priv.PublicKey())
		priv.Wipe()
	}
	return out, nil
}

// ValidateFactorInstance reports whether the mnemonic re-derives the instance's
// public key at its recorded path.
func ValidateFactorInstance(fi domain.FactorInstance, m domain.MnemonicWithPassphrase) (bool, error) {
	pk, err := DerivePublicKey(m, fi.DerivationPath, fi.DerivationPath.Curve())
	if err != nil {
		return false, err
	}
	return pk.Equal(fi.PublicKey), nil
}
