package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Curve is an elliptic curve a factor source can derive keys on.
type Curve string

const (
	Curve25519 Curve = "curve25519"
	Secp256k1  Curve = "secp256k1"
)

// PublicKeySize returns the encoded public key length for the curve.
func (c Curve) PublicKeySize() int {
	switch c {
	case Curve25519:
		return 32
	case Secp256k1:
		return 33
	default:
		return 0
	}
}

// PublicKey is a curve-tagged public key. secp256k1 keys are stored compressed.
type PublicKey struct {
	Curve Curve
	Bytes []byte
}

// NewPublicKey validates the key length for curve.
func NewPublicKey(curve Curve, b []byte) (PublicKey, error) {
	if n := curve.PublicKeySize(); n == 0 || len(b) != n {
		return PublicKey{}, fmt.Errorf("invalid %s public key length %d", curve, len(b))
	}
	return PublicKey{Curve: curve, Bytes: append([]byte(nil), b...)}, nil
}

// Hex returns the hex encoding of the key bytes.
func (k PublicKey) Hex() string { return hex.EncodeToString(k.Bytes) }

// Equal reports whether both keys are on the same curve with identical bytes.
func (k PublicKey) Equal(o PublicKey) bool {
	return k.Curve == o.Curve && bytes.Equal(k.Bytes, o.Bytes)
}

type publicKeyJSON struct {
	Curve          Curve  `json:"curve"`
	CompressedData string `json:"compressedData"`
}

func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicKeyJSON{Curve: k.Curve, CompressedData: k.Hex()})
}

func (k *PublicKey) UnmarshalJSON(b []byte) error {
	var raw publicKeyJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := hex.DecodeString(raw.CompressedData)
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	pk, err := NewPublicKey(raw.Curve, data)
	if err != nil {
		return err
	}
	*k = pk
	return nil
}

// Address is a Bech32m encoded entity address.
type Address string

func (a Address) String() string { return string(a) }
