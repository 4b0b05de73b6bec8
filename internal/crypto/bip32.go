package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// bip32Derive walks components with BIP-32 secp256k1 derivation and returns the
// private key of the final node.
func bip32Derive(seed []byte, components []uint32) (*btcec.PrivateKey, error) {
	current, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	for _, c := range components {
		next, err := current.Derive(c)
		current.Zero()
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", c, err)
		}
		current = next
	}
	defer current.Zero()
	return current.ECPrivKey()
}
