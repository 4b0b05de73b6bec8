package device_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"walletcore/internal/device"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

var ledgerMnemonic = domain.MnemonicWithPassphrase{
	Mnemonic: "bright club bacon dinner achieve pull grid save ramp cereal blush woman " +
		"humble limb repeat video sudden possible story mask neutral prize goose mandate",
}

func accountPath(t *testing.T, index uint32) domain.DerivationPath {
	t.Helper()
	p, err := types.NewCAP26Path(types.Mainnet, types.EntityKindAccount, types.KeyRoleTransactionSigning, index)
	require.NoError(t, err)
	return p
}

func newEmulator(t *testing.T) *device.Emulator {
	t.Helper()
	emu, err := device.NewEmulator(ledgerMnemonic, "nanoS+")
	require.NoError(t, err)
	return emu
}

func testTransport(t *testing.T, tr domain.DeviceTransport) {
	t.Helper()
	ctx := context.Background()

	info, err := tr.DeviceInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.FactorSourceKindLedger, info.ID.Kind)
	assert.Equal(t, "6facb00a836864511fdf8f181382209e64e83ad462288ea1bc7868f236fb8033", info.ID.String()[len("ledgerHQHardwareWallet:"):])
	assert.Equal(t, "nanoS+", info.Model)

	keys, err := tr.DerivePublicKeys(ctx, info.ID, []domain.DerivationPath{accountPath(t, 0), accountPath(t, 1)})
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "6224937b15ec4017a036c0bd6999b7fa2b9c2f9452286542fd56f6a3fb6d33ed", keys[0].Hex())
	assert.Equal(t, "a8d6fb3b7f3627b4589c2b663e8cc9b4d49df7013220ac0edd7e22e6cc608fa6", keys[1].Hex())

	other := info.ID
	other.Body[0] ^= 0xff
	_, err = tr.DerivePublicKeys(ctx, other, []domain.DerivationPath{accountPath(t, 0)})
	assert.ErrorIs(t, err, device.ErrWrongDevice)
}

func TestEmulator(t *testing.T) {
	testTransport(t, newEmulator(t))
}

func TestHTTPClient(t *testing.T) {
	srv := httptest.NewServer(device.Handler(newEmulator(t), zap.NewNop()))
	defer srv.Close()

	client := device.NewHTTP(srv.URL + "/")
	client.HTTP = srv.Client()
	testTransport(t, client)
}

func TestEmulator_LatencyHonoursContext(t *testing.T) {
	emu := newEmulator(t).WithLatency(time.Minute)
	info, err := newEmulator(t).DeviceInfo(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = emu.DerivePublicKeys(ctx, info.ID, []domain.DerivationPath{accountPath(t, 0)})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPClient_OlympiaAndUnknownRoute(t *testing.T) {
	emu := newEmulator(t)
	srv := httptest.NewServer(device.Handler(emu, nil))
	defer srv.Close()

	info, err := emu.DeviceInfo(context.Background())
	require.NoError(t, err)

	olympia, err := types.NewOlympiaPath(0)
	require.NoError(t, err)
	keys, err := device.NewHTTP(srv.URL).DerivePublicKeys(context.Background(), info.ID, []domain.DerivationPath{olympia})
	require.NoError(t, err)
	assert.Equal(t, types.Secp256k1, keys[0].Curve)

	_, err = device.NewHTTP(srv.URL+"/missing").DeviceInfo(context.Background())
	assert.Error(t, err)
}
