package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletcore/internal/app"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/logging"
)

func config(t *testing.T, backend string) app.Config {
	return app.Config{
		Home:               t.TempDir(),
		Store:              backend,
		KeystorePassphrase: "keystore",
		Network:            types.Mainnet,
		Log:                logging.Config{Level: "error", Format: "json"},
	}
}

func TestNewWire_PersistsAcrossRestarts(t *testing.T) {
	for _, backend := range []string{app.StoreFile, app.StoreBolt} {
		t.Run(backend, func(t *testing.T) {
			cfg := config(t, backend)
			ctx := context.Background()

			w, err := app.NewWire(cfg)
			require.NoError(t, err)
			assert.Nil(t, w.Device)
			p, _, err := w.Wallet.Create(ctx, "pw", "laptop", "", nil)
			require.NoError(t, err)
			account, err := w.Wallet.CreateAccount(ctx, domain.CreateAccountRequest{
				FactorSourceID: p.FactorSources[0].ID,
				NetworkID:      cfg.Network,
				DisplayName:    "Main",
			})
			require.NoError(t, err)
			require.NoError(t, w.Close())

			w, err = app.NewWire(cfg)
			require.NoError(t, err)
			defer w.Close()
			require.NoError(t, w.Wallet.Open("pw"))
			got, err := w.Wallet.Profile()
			require.NoError(t, err)
			require.Len(t, got.Networks, 1)
			assert.Equal(t, account.Address, got.Networks[0].Accounts[0].Address)

			mismatches, err := w.Entities.VerifyProfile(got)
			require.NoError(t, err)
			assert.Empty(t, mismatches)
		})
	}
}

func TestNewWire_BridgeAndUnknownStore(t *testing.T) {
	cfg := config(t, app.StoreFile)
	cfg.BridgeURL = "http://127.0.0.1:8732"
	w, err := app.NewWire(cfg)
	require.NoError(t, err)
	assert.NotNil(t, w.Device)
	require.NoError(t, w.Close())

	cfg.Store = "postgres"
	_, err = app.NewWire(cfg)
	assert.Error(t, err)
}

func TestHostDevice_StableID(t *testing.T) {
	a, b := app.HostDevice(), app.HostDevice()
	assert.Equal(t, a.ID, b.ID)
	assert.NotEmpty(t, a.Description)
}
