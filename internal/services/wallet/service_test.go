package wallet_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletcore/internal/device"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/profile"
	"walletcore/internal/services/entity"
	"walletcore/internal/services/factorsource"
	"walletcore/internal/services/wallet"
	"walletcore/internal/snapshot"
	"walletcore/internal/store"
)

const password = "correct horse"

var (
	epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	testMnemonic = domain.MnemonicWithPassphrase{
		Mnemonic: "bright club bacon dinner achieve pull grid save ramp cereal blush woman " +
			"humble limb repeat video sudden possible story mask neutral prize goose mandate",
	}
	otherMnemonic = domain.MnemonicWithPassphrase{
		Mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
	}
)

type harness struct {
	wallet    *wallet.Service
	snapshots domain.SnapshotStore
	persisted *store.MemoryMnemonicStore
	session   *store.MemoryMnemonicStore
	transport domain.DeviceTransport
}

func newHarness(snapshots domain.SnapshotStore, persisted *store.MemoryMnemonicStore, transport domain.DeviceTransport) harness {
	session := store.NewMemoryMnemonicStore()
	mnemonics := store.NewLayeredMnemonicStore(persisted, session)
	clock := func() time.Time { return epoch }
	w := wallet.New(wallet.Deps{
		Snapshots: snapshots,
		Mnemonics: mnemonics,
		Session:   session,
		Entities:  entity.New(mnemonics, transport, nil).WithClock(clock),
		Sources:   factorsource.New(mnemonics, transport, nil).WithClock(clock),
		Host:      domain.DeviceInfo{ID: uuid.MustParse("66f07ca2-a9d9-49e5-8152-77aca3d1dd74"), Description: "test host"},
	}).WithClock(clock)
	return harness{wallet: w, snapshots: snapshots, persisted: persisted, session: session, transport: transport}
}

func created(t *testing.T, m domain.MnemonicWithPassphrase, transport domain.DeviceTransport) harness {
	t.Helper()
	h := newHarness(store.NewFileSnapshotStore(t.TempDir()), store.NewMemoryMnemonicStore(), transport)
	_, _, err := h.wallet.Create(context.Background(), password, "Galaxy", "SM-A536B", &m)
	require.NoError(t, err)
	return h
}

func mainFactorSource(t *testing.T, w *wallet.Service) domain.FactorSourceID {
	t.Helper()
	p, err := w.Profile()
	require.NoError(t, err)
	return p.FactorSources[0].ID
}

func assertSameProfile(t *testing.T, want, got domain.Profile, msgAndArgs ...any) {
	t.Helper()
	same, err := want.Equal(got)
	require.NoError(t, err)
	assert.True(t, same, msgAndArgs...)
}

func TestCreate(t *testing.T) {
	h := newHarness(store.NewFileSnapshotStore(t.TempDir()), store.NewMemoryMnemonicStore(), nil)
	ctx := context.Background()

	_, err := h.wallet.Profile()
	require.ErrorIs(t, err, domain.ErrNoProfile)
	exists, err := h.wallet.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	p, m, err := h.wallet.Create(ctx, password, "Galaxy", "SM-A536B", nil)
	require.NoError(t, err)
	assert.Len(t, m.Words(), 24)
	require.Len(t, p.FactorSources, 1)
	assert.True(t, p.FactorSources[0].HasFlag(types.FactorSourceFlagMain))
	assert.Empty(t, p.Networks)
	assert.Equal(t, epoch, p.Header.LastModified)
	assert.Equal(t, "test host", p.Header.CreatingDevice.Description)

	stored, ok, err := h.persisted.LoadMnemonic(p.FactorSources[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m, stored)

	_, _, err = h.wallet.Create(ctx, password, "again", "", nil)
	require.ErrorIs(t, err, wallet.ErrProfileExists)
}

func TestCreateAccount_PersistsAndReopens(t *testing.T) {
	h := created(t, testMnemonic, nil)
	ctx := context.Background()
	id := mainFactorSource(t, h.wallet)

	account, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: id, NetworkID: types.Mainnet, DisplayName: "First"})
	require.NoError(t, err)
	assert.Equal(t, domain.Address("account_rdx128vge9xzep4hsn4pns8qch5uqld2yvx6f3gfff786du7vlk6w6e6k4"), account.Address)

	persona, err := h.wallet.CreatePersona(ctx, domain.CreatePersonaRequest{FactorSourceID: id, NetworkID: types.Mainnet, DisplayName: "Me"})
	require.NoError(t, err)
	_, err = h.wallet.AddAuthenticationSigningKey(ctx, persona.Address)
	require.NoError(t, err)

	want, err := h.wallet.Profile()
	require.NoError(t, err)
	assert.Equal(t, 1, want.Header.ContentHint.NumberOfAccountsOnAllNetworksInTotal)
	assert.Equal(t, 1, want.Header.ContentHint.NumberOfPersonasOnAllNetworksInTotal)

	reopened := newHarness(h.snapshots, h.persisted, nil)
	require.ErrorIs(t, reopened.wallet.Open("wrong"), domain.ErrDecryption)
	require.NoError(t, reopened.wallet.Open(password))
	got, err := reopened.wallet.Profile()
	require.NoError(t, err)
	assertSameProfile(t, want, got)
}

func TestOpen_NoSnapshot(t *testing.T) {
	h := newHarness(store.NewFileSnapshotStore(t.TempDir()), store.NewMemoryMnemonicStore(), nil)
	require.ErrorIs(t, h.wallet.Open(password), domain.ErrNoProfile)
}

func TestConcurrentCreateAccount(t *testing.T) {
	bolt, err := store.OpenBoltSnapshotStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	h := newHarness(bolt, store.NewMemoryMnemonicStore(), nil)
	_, _, err = h.wallet.Create(context.Background(), password, "Galaxy", "", &testMnemonic)
	require.NoError(t, err)
	id := mainFactorSource(t, h.wallet)

	const n = 8
	var wg sync.WaitGroup
	accounts := make([]domain.Account, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			accounts[i], errs[i] = h.wallet.CreateAccount(context.Background(), domain.CreateAccountRequest{
				FactorSourceID: id,
				NetworkID:      types.Mainnet,
				DisplayName:    "concurrent",
			})
		}(i)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	for i := range accounts {
		require.NoError(t, errs[i])
		assert.False(t, seen[accounts[i].Index()], "index %d issued twice", accounts[i].Index())
		seen[accounts[i].Index()] = true
	}

	p, err := h.wallet.Profile()
	require.NoError(t, err)
	next, err := profile.NextIndex(p, id, types.Mainnet, types.EntityKindAccount)
	require.NoError(t, err)
	assert.Equal(t, uint32(n), next)
	assert.Len(t, p.Networks[0].Accounts, n)

	history, err := bolt.History()
	require.NoError(t, err)
	assert.Len(t, history, n)
}

type failingSnapshotStore struct {
	domain.SnapshotStore
	fail bool
}

func (s *failingSnapshotStore) SaveSnapshot(e domain.EncryptedSnapshot) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.SnapshotStore.SaveSnapshot(e)
}

func TestFailedCommitLeavesProfileUnchanged(t *testing.T) {
	snapshots := &failingSnapshotStore{SnapshotStore: store.NewFileSnapshotStore(t.TempDir())}
	h := newHarness(snapshots, store.NewMemoryMnemonicStore(), nil)
	ctx := context.Background()
	_, _, err := h.wallet.Create(ctx, password, "Galaxy", "", &testMnemonic)
	require.NoError(t, err)
	id := mainFactorSource(t, h.wallet)

	before, err := h.wallet.Profile()
	require.NoError(t, err)
	storedBefore, _, err := snapshots.LoadSnapshot()
	require.NoError(t, err)

	snapshots.fail = true
	_, err = h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: id, NetworkID: types.Mainnet})
	require.Error(t, err)

	after, err := h.wallet.Profile()
	require.NoError(t, err)
	assertSameProfile(t, before, after)
	storedAfter, _, err := snapshots.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, storedBefore, storedAfter)

	snapshots.fail = false
	account, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: id, NetworkID: types.Mainnet})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), account.Index())
}

func TestUpdate_RejectsInvalidProfile(t *testing.T) {
	h := created(t, testMnemonic, nil)
	_, err := h.wallet.Update(context.Background(), func(p domain.Profile) (domain.Profile, error) {
		p.Networks = append(p.Networks, domain.Network{NetworkID: types.Stokenet})
		return p, nil
	})
	require.ErrorIs(t, err, domain.ErrInvalidProfile)

	p, err := h.wallet.Profile()
	require.NoError(t, err)
	assert.Empty(t, p.Networks)
}

func TestUpdate_CancelledContext(t *testing.T) {
	h := created(t, testMnemonic, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: mainFactorSource(t, h.wallet), NetworkID: types.Mainnet})
	require.ErrorIs(t, err, context.Canceled)

	p, err := h.wallet.Profile()
	require.NoError(t, err)
	assert.Empty(t, p.Networks)
}

func TestLedger_CancelledDerivation(t *testing.T) {
	emu, err := device.NewEmulator(testMnemonic, "nanoS+")
	require.NoError(t, err)
	h := created(t, otherMnemonic, emu)

	fs, err := h.wallet.AddLedger(context.Background(), "Cold")
	require.NoError(t, err)
	assert.Equal(t, types.FactorSourceKindLedger, fs.Kind())

	emu.WithLatency(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: fs.ID, NetworkID: types.Mainnet})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	p, err := h.wallet.Profile()
	require.NoError(t, err)
	next, err := profile.NextIndex(p, fs.ID, types.Mainnet, types.EntityKindAccount)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), next)
	assert.Empty(t, p.Networks)

	emu.WithLatency(0)
	account, err := h.wallet.CreateAccount(context.Background(), domain.CreateAccountRequest{FactorSourceID: fs.ID, NetworkID: types.Mainnet})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), account.Index())
}

func TestOffDeviceMnemonic_SessionOnly(t *testing.T) {
	h := created(t, otherMnemonic, nil)
	ctx := context.Background()

	fs, err := h.wallet.AddOffDeviceMnemonic(ctx, testMnemonic, "paper")
	require.NoError(t, err)
	_, err = h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: fs.ID, NetworkID: types.Mainnet})
	require.NoError(t, err)

	_, ok, err := h.persisted.LoadMnemonic(fs.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.wallet.Close())
	_, ok, err = h.session.LoadMnemonic(fs.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.wallet.Open(password))
	_, err = h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: fs.ID, NetworkID: types.Mainnet})
	require.ErrorIs(t, err, entity.ErrMnemonicUnavailable)

	_, err = h.wallet.ProvideMnemonic(domain.MnemonicWithPassphrase{Mnemonic: testMnemonic.Mnemonic, Passphrase: "other"})
	require.ErrorIs(t, err, domain.ErrFactorSourceNotFound)

	id, err := h.wallet.ProvideMnemonic(testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, fs.ID, id)
	account, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: fs.ID, NetworkID: types.Mainnet})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), account.Index())
}

func TestOffDeviceMnemonic_RejectsDeviceSeed(t *testing.T) {
	h := created(t, testMnemonic, nil)
	ctx := context.Background()
	_, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: mainFactorSource(t, h.wallet), NetworkID: types.Mainnet})
	require.NoError(t, err)
	before, err := h.wallet.Profile()
	require.NoError(t, err)

	_, err = h.wallet.AddOffDeviceMnemonic(ctx, testMnemonic, "paper")
	require.ErrorIs(t, err, domain.ErrDuplicateFactorSource)

	after, err := h.wallet.Profile()
	require.NoError(t, err)
	assertSameProfile(t, before, after)
	assert.Len(t, after.FactorSources, 1)
}

func TestExportImport(t *testing.T) {
	h := created(t, testMnemonic, nil)
	ctx := context.Background()
	_, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: mainFactorSource(t, h.wallet), NetworkID: types.Mainnet, DisplayName: "Savings"})
	require.NoError(t, err)
	original, err := h.wallet.Profile()
	require.NoError(t, err)

	encrypted, err := h.wallet.Export("backup password")
	require.NoError(t, err)
	kind, err := snapshot.Inspect(encrypted)
	require.NoError(t, err)
	assert.Equal(t, snapshot.KindEncrypted, kind)

	plain, err := h.wallet.ExportPlaintext()
	require.NoError(t, err)
	kind, err = snapshot.Inspect(plain)
	require.NoError(t, err)
	assert.Equal(t, snapshot.KindPlaintext, kind)

	other := newHarness(store.NewFileSnapshotStore(t.TempDir()), store.NewMemoryMnemonicStore(), nil)
	_, err = other.wallet.Import(ctx, encrypted, "wrong")
	require.ErrorIs(t, err, domain.ErrDecryption)

	imported, err := other.wallet.Import(ctx, encrypted, "backup password")
	require.NoError(t, err)
	assertSameProfile(t, original, imported)

	// the imported profile is stored under the export password
	require.NoError(t, other.wallet.Close())
	require.NoError(t, other.wallet.Open("backup password"))

	fromPlain, err := other.wallet.Import(ctx, plain, "")
	require.NoError(t, err)
	assertSameProfile(t, original, fromPlain)
	require.NoError(t, other.wallet.Close())
	require.NoError(t, other.wallet.Open("backup password"))
}

func TestImport_OlderExportKeepsCounters(t *testing.T) {
	h := created(t, testMnemonic, nil)
	ctx := context.Background()
	id := mainFactorSource(t, h.wallet)
	_, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: id, NetworkID: types.Mainnet})
	require.NoError(t, err)

	backup, err := h.wallet.Export("backup password")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: id, NetworkID: types.Mainnet})
		require.NoError(t, err)
	}

	imported, err := h.wallet.Import(ctx, backup, "backup password")
	require.NoError(t, err)
	assert.Len(t, imported.Networks[0].Accounts, 1)
	next, err := profile.NextIndex(imported, id, types.Mainnet, types.EntityKindAccount)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), next)

	account, err := h.wallet.CreateAccount(ctx, domain.CreateAccountRequest{FactorSourceID: id, NetworkID: types.Mainnet})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), account.Index())
}

func TestReset(t *testing.T) {
	h := created(t, testMnemonic, nil)
	id := mainFactorSource(t, h.wallet)

	require.NoError(t, h.wallet.Reset())

	exists, err := h.wallet.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
	_, ok, err := h.persisted.LoadMnemonic(id)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = h.wallet.Profile()
	require.ErrorIs(t, err, domain.ErrNoProfile)

	_, _, err = h.wallet.Create(context.Background(), password, "Galaxy", "", &testMnemonic)
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	h := created(t, testMnemonic, nil)
	require.NoError(t, h.wallet.ChangePassword(context.Background(), "new password"))
	require.NoError(t, h.wallet.Close())

	require.ErrorIs(t, h.wallet.Open(password), domain.ErrDecryption)
	require.NoError(t, h.wallet.Open("new password"))
}
