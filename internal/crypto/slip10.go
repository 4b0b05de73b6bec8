package crypto

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"walletcore/internal/domain/types"
)

const slip10Curve = "ed25519 seed"

// slip10Key is a SLIP-10 ed25519 node: a 32-byte private seed and chain code.
type slip10Key struct {
	key       []byte
	chainCode []byte
}

func (k slip10Key) wipe() { Wipe(k.key, k.chainCode) }

// slip10Master computes HMAC-SHA512(Key="ed25519 seed", Data=seed).
func slip10Master(seed []byte) slip10Key {
	mac := hmac.New(sha512.New, []byte(slip10Curve))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return slip10Key{key: sum[:32], chainCode: sum[32:]}
}

// slip10Child derives a hardened child: data = 0x00 || key || BE32(index).
func slip10Child(parent slip10Key, index uint32) slip10Key {
	data := make([]byte, 0, 37)
	data = append(data, 0x00)
	data = append(data, parent.key...)
	data = binary.BigEndian.AppendUint32(data, index)
	defer Wipe(data)

	mac := hmac.New(sha512.New, parent.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return slip10Key{key: sum[:32], chainCode: sum[32:]}
}

// slip10Derive walks components from the master node. ed25519 only supports
// hardened derivation.
func slip10Derive(seed []byte, components []uint32) (slip10Key, error) {
	current := slip10Master(seed)
	for _, c := range components {
		if c < types.HardenedOffset {
			current.wipe()
			return slip10Key{}, fmt.Errorf("ed25519 child %d is not hardened", c)
		}
		next := slip10Child(current, c)
		current.wipe()
		current = next
	}
	return current, nil
}

func ed25519FromSLIP10(k slip10Key) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(k.key)
}
