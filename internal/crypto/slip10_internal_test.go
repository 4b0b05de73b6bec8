package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletcore/internal/domain/types"
)

// SLIP-0010 test vector 1 for ed25519.
func TestSLIP10_Vector1(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	master := slip10Master(seed)
	assert.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(master.key))
	assert.Equal(t, "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb", hex.EncodeToString(master.chainCode))
	pub := ed25519FromSLIP10(master).Public().(ed25519.PublicKey)
	assert.Equal(t, "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed", hex.EncodeToString(pub))

	child, err := slip10Derive(seed, []uint32{types.HardenedOffset})
	require.NoError(t, err)
	assert.Equal(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", hex.EncodeToString(child.key))
	assert.Equal(t, "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69", hex.EncodeToString(child.chainCode))
}

func TestSLIP10_RejectsNonHardened(t *testing.T) {
	_, err := slip10Derive(make([]byte, 16), []uint32{types.HardenedOffset, 1})
	assert.Error(t, err)
}
