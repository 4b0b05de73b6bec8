package crypto

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

var entropyBitsForWords = map[int]int{12: 128, 15: 160, 18: 192, 21: 224, 24: 256}

// GenerateMnemonic returns a fresh English BIP-39 mnemonic of wordCount words.
func GenerateMnemonic(wordCount int) (string, error) {
	bits, ok := entropyBitsForWords[wordCount]
	if !ok {
		return "", fmt.Errorf("unsupported word count %d", wordCount)
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	defer Wipe(entropy)
	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic checks word list membership and checksum.
func ValidateMnemonic(m domain.MnemonicWithPassphrase) error {
	if _, ok := entropyBitsForWords[len(m.Words())]; !ok || !bip39.IsMnemonicValid(m.Mnemonic) {
		return types.ErrInvalidSeed
	}
	return nil
}

// Seed stretches the mnemonic and passphrase into a 64-byte BIP-39 seed.
// Callers must Wipe the result.
func Seed(m domain.MnemonicWithPassphrase) ([]byte, error) {
	if err := ValidateMnemonic(m); err != nil {
		return nil, err
	}
	return bip39.NewSeed(m.Mnemonic, m.Passphrase), nil
}
