package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"walletcore/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pk domain.PublicKey) string {
	sum := sha256.Sum256(pk.Bytes)
	return hex.EncodeToString(sum[:10])
}
