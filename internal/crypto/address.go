package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// Entity type bytes prefixing the node id of virtual entity addresses.
const (
	entityTypeEd25519Account    byte = 0x51
	entityTypeSecp256k1Account  byte = 0xd1
	entityTypeEd25519Identity   byte = 0x52
	entityTypeSecp256k1Identity byte = 0xd2
)

const nodeIDHashLength = 29

func entityType(kind domain.EntityKind, curve domain.Curve) (byte, error) {
	switch {
	case kind == types.EntityKindAccount && curve == types.Curve25519:
		return entityTypeEd25519Account, nil
	case kind == types.EntityKindAccount && curve == types.Secp256k1:
		return entityTypeSecp256k1Account, nil
	case kind == types.EntityKindIdentity && curve == types.Curve25519:
		return entityTypeEd25519Identity, nil
	case kind == types.EntityKindIdentity && curve == types.Secp256k1:
		return entityTypeSecp256k1Identity, nil
	}
	return 0, fmt.Errorf("no entity type for %s on %s", kind, curve)
}

func hrpPrefix(kind domain.EntityKind) string {
	if kind == types.EntityKindIdentity {
		return "identity_"
	}
	return "account_"
}

// DeriveAddress computes the virtual entity address of pk on network. The node
// id is the entity type byte followed by the last 29 bytes of BLAKE2b-256(pk),
// encoded as Bech32m under the HRP "account_<suffix>" or "identity_<suffix>".
func DeriveAddress(network domain.NetworkID, kind domain.EntityKind, pk domain.PublicKey) (domain.Address, error) {
	if len(pk.Bytes) != pk.Curve.PublicKeySize() || len(pk.Bytes) == 0 {
		return "", fmt.Errorf("derive address: invalid %s public key", pk.Curve)
	}
	et, err := entityType(kind, pk.Curve)
	if err != nil {
		return "", err
	}
	hash := blake2b.Sum256(pk.Bytes)
	nodeID := make([]byte, 0, 1+nodeIDHashLength)
	nodeID = append(nodeID, et)
	nodeID = append(nodeID, hash[len(hash)-nodeIDHashLength:]...)

	data, err := bech32.ConvertBits(nodeID, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("derive address: %w", err)
	}
	s, err := bech32.EncodeM(hrpPrefix(kind)+network.HRPSuffix(), data)
	if err != nil {
		return "", fmt.Errorf("derive address: %w", err)
	}
	return domain.Address(s), nil
}

// DecodedAddress is the content of a virtual entity address.
type DecodedAddress struct {
	HRP    string
	NodeID []byte
}

// EntityType returns the leading entity type byte.
func (d DecodedAddress) EntityType() byte { return d.NodeID[0] }

// DecodeAddress parses and checksums a Bech32m entity address.
func DecodeAddress(addr domain.Address) (DecodedAddress, error) {
	hrp, data, version, err := bech32.DecodeGeneric(string(addr))
	if err != nil {
		return DecodedAddress{}, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if version != bech32.VersionM {
		return DecodedAddress{}, fmt.Errorf("decode address %q: not bech32m", addr)
	}
	nodeID, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return DecodedAddress{}, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if len(nodeID) != 1+nodeIDHashLength {
		return DecodedAddress{}, fmt.Errorf("decode address %q: node id length %d", addr, len(nodeID))
	}
	return DecodedAddress{HRP: hrp, NodeID: nodeID}, nil
}
