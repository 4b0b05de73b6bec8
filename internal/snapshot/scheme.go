package snapshot

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"walletcore/internal/domain/types"
	"walletcore/internal/util/memzero"
)

const (
	hkdfDescription   = "HKDFSHA256-with-UTF8-encoding-of-password-no-salt-no-info"
	aesgcmDescription = "AESGCM-256"

	keySize = 32
)

// scheme is one envelope generation: how the key is derived and how the
// payload is sealed.
type scheme struct {
	kdf        types.SchemeDescriptor
	encryption types.SchemeDescriptor
	deriveKey  func(password string) ([]byte, error)
	seal       func(key, plaintext []byte) ([]byte, error)
	open       func(key, sealed []byte) ([]byte, error)
}

// schemes maps envelope versions to the scheme that wrote them.
var schemes = map[int]scheme{
	1: {
		kdf:        types.SchemeDescriptor{Version: 1, Description: hkdfDescription},
		encryption: types.SchemeDescriptor{Version: 1, Description: aesgcmDescription},
		deriveKey:  hkdfSHA256,
		seal:       sealAESGCM,
		open:       openAESGCM,
	},
}

// CurrentVersion is the envelope version Encrypt writes.
const CurrentVersion = 1

func schemeFor(version int) (scheme, error) {
	s, ok := schemes[version]
	if !ok {
		return scheme{}, fmt.Errorf("encrypted snapshot version %d: %w", version, types.ErrUnsupportedSnapshotVersion)
	}
	return s, nil
}

func hkdfSHA256(password string) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(password), nil, nil), key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// sealAESGCM returns nonce || ciphertext || tag.
func sealAESGCM(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func openAESGCM(key, sealed []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, types.ErrDecryption
	}
	nonce, ct := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, types.ErrDecryption
	}
	return pt, nil
}

func wipe(b []byte) { memzero.Zero(b) }
