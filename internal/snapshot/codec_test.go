package snapshot_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/snapshot"
)

const fixtureDevice = "Galaxy A53 5G (Samsung SM-A536B)"

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func fixtureProfile(t *testing.T) domain.Profile {
	t.Helper()
	p, err := snapshot.Unmarshal(readFixture(t, "profile_snapshot.json"))
	require.NoError(t, err)
	return p
}

func assertSameProfile(t *testing.T, want, got domain.Profile, msgAndArgs ...any) {
	t.Helper()
	same, err := want.Equal(got)
	require.NoError(t, err)
	assert.True(t, same, msgAndArgs...)
}

func TestUnmarshal_Fixture(t *testing.T) {
	p := fixtureProfile(t)

	assert.Equal(t, fixtureDevice, p.Header.CreatingDevice.Description)
	assert.Equal(t, types.SnapshotVersion, p.Header.SnapshotVersion)
	require.Len(t, p.FactorSources, 1)
	assert.Equal(t, types.FactorSourceKindDevice, p.FactorSources[0].Kind())
	require.Len(t, p.Networks, 1)

	n := p.Networks[0]
	assert.Equal(t, types.Mainnet, n.NetworkID)
	require.Len(t, n.Accounts, 1)
	require.Len(t, n.Personas, 1)
	assert.Equal(t, domain.Address("account_rdx128vge9xzep4hsn4pns8qch5uqld2yvx6f3gfff786du7vlk6w6e6k4"), n.Accounts[0].Address)
	assert.Equal(t, "m/44H/1022H/1H/525H/1460H/0H", n.Accounts[0].SecurityState.TransactionSigning.DerivationPath.String())
	require.NotNil(t, n.Personas[0].PersonaData.Name)
	assert.Equal(t, "Nakamoto", n.Personas[0].PersonaData.Name.Value.FamilyName)
	require.Len(t, n.AuthorizedDapps, 1)
}

func TestDecrypt_ReferenceEnvelope(t *testing.T) {
	var e domain.EncryptedSnapshot
	require.NoError(t, json.Unmarshal(readFixture(t, "encrypted_profile_snapshot_babylon.json"), &e))

	p, err := snapshot.Decrypt(e, "babylon")
	require.NoError(t, err)
	assert.Equal(t, fixtureDevice, p.Header.CreatingDevice.Description)
	assertSameProfile(t, fixtureProfile(t), p)

	_, err = snapshot.Decrypt(e, "Babylon")
	assert.ErrorIs(t, err, domain.ErrDecryption)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	p := fixtureProfile(t)

	for _, password := range []string{"", "Radix... just imagine!", "babylon"} {
		t.Run(password, func(t *testing.T) {
			e, err := snapshot.Encrypt(p, password)
			require.NoError(t, err)
			assert.Equal(t, snapshot.CurrentVersion, e.Version)

			got, err := snapshot.Decrypt(e, password)
			require.NoError(t, err)
			assertSameProfile(t, p, got)

			_, err = snapshot.Decrypt(e, password+"x")
			assert.ErrorIs(t, err, domain.ErrDecryption)
		})
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	p := fixtureProfile(t)
	a, err := snapshot.Encrypt(p, "babylon")
	require.NoError(t, err)
	b, err := snapshot.Encrypt(p, "babylon")
	require.NoError(t, err)
	assert.NotEqual(t, a.EncryptedSnapshot, b.EncryptedSnapshot)
}

func TestDecrypt_DamagedEnvelope(t *testing.T) {
	e, err := snapshot.Encrypt(fixtureProfile(t), "babylon")
	require.NoError(t, err)

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		return string(b)
	}

	cases := map[string]string{
		"nonce":      flip(e.EncryptedSnapshot, 0),
		"ciphertext": flip(e.EncryptedSnapshot, 40),
		"tag":        flip(e.EncryptedSnapshot, len(e.EncryptedSnapshot)-1),
		"truncated":  e.EncryptedSnapshot[:20],
		"not hex":    "zz" + e.EncryptedSnapshot[2:],
		"empty":      "",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			damaged := e
			damaged.EncryptedSnapshot = data
			_, err := snapshot.Decrypt(damaged, "babylon")
			assert.ErrorIs(t, err, domain.ErrDecryption)
		})
	}
}

func TestDecrypt_UnsupportedVersion(t *testing.T) {
	e, err := snapshot.Encrypt(fixtureProfile(t), "babylon")
	require.NoError(t, err)

	future := e
	future.Version = 2
	_, err = snapshot.Decrypt(future, "babylon")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSnapshotVersion)

	mixed := e
	mixed.EncryptionScheme.Version = 7
	_, err = snapshot.Decrypt(mixed, "babylon")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSnapshotVersion)
}

func TestEnvelopeJSON(t *testing.T) {
	e, err := snapshot.Encrypt(fixtureProfile(t), "babylon")
	require.NoError(t, err)
	b, err := json.Marshal(e)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, float64(1), fields["version"])
	assert.Equal(t, map[string]any{"version": float64(1), "description": "HKDFSHA256-with-UTF8-encoding-of-password-no-salt-no-info"}, fields["keyDerivationScheme"])
	assert.Equal(t, map[string]any{"version": float64(1), "description": "AESGCM-256"}, fields["encryptionScheme"])
	assert.IsType(t, "", fields["encryptedSnapshot"])
}

func TestUnmarshal_Rejects(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal(readFixture(t, "profile_snapshot.json"), &raw))

	t.Run("old version", func(t *testing.T) {
		raw["header"].(map[string]any)["snapshotVersion"] = 99
		b, err := json.Marshal(raw)
		require.NoError(t, err)
		_, err = snapshot.Unmarshal(b)
		assert.ErrorIs(t, err, domain.ErrUnsupportedSnapshotVersion)
		raw["header"].(map[string]any)["snapshotVersion"] = 100
	})

	t.Run("empty network", func(t *testing.T) {
		networks := raw["networks"].([]any)
		network := networks[0].(map[string]any)
		accounts := network["accounts"]
		network["accounts"] = []any{}
		b, err := json.Marshal(raw)
		require.NoError(t, err)
		_, err = snapshot.Unmarshal(b)
		assert.ErrorIs(t, err, domain.ErrInvalidProfile)
		network["accounts"] = accounts
	})

	t.Run("not json", func(t *testing.T) {
		_, err := snapshot.Unmarshal([]byte("profile"))
		assert.Error(t, err)
	})
}

func TestInspect(t *testing.T) {
	kind, err := snapshot.Inspect(readFixture(t, "profile_snapshot.json"))
	require.NoError(t, err)
	assert.Equal(t, snapshot.KindPlaintext, kind)

	kind, err = snapshot.Inspect(readFixture(t, "encrypted_profile_snapshot_babylon.json"))
	require.NoError(t, err)
	assert.Equal(t, snapshot.KindEncrypted, kind)

	_, err = snapshot.Inspect([]byte(`{"hello":"world"}`))
	assert.ErrorIs(t, err, snapshot.ErrUnknownFormat)
	_, err = snapshot.Inspect([]byte(`[1,2]`))
	assert.ErrorIs(t, err, snapshot.ErrUnknownFormat)
}

func TestOpen(t *testing.T) {
	plain, err := snapshot.Open(readFixture(t, "profile_snapshot.json"), "ignored")
	require.NoError(t, err)

	encrypted, err := snapshot.Open(readFixture(t, "encrypted_profile_snapshot_babylon.json"), "babylon")
	require.NoError(t, err)
	assertSameProfile(t, plain, encrypted)

	_, err = snapshot.Open(readFixture(t, "encrypted_profile_snapshot_babylon.json"), "wrong")
	assert.ErrorIs(t, err, domain.ErrDecryption)
}
