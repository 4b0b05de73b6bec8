package store_test

import (
	"errors"
	"testing"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/store"
)

var fastScrypt = store.ScryptParams{N: 1 << 10, R: 8, P: 1}

func envelope(payload string) domain.EncryptedSnapshot {
	return domain.EncryptedSnapshot{
		Version:             1,
		KeyDerivationScheme: types.SchemeDescriptor{Version: 1, Description: "HKDFSHA256-with-UTF8-encoding-of-password-no-salt-no-info"},
		EncryptionScheme:    types.SchemeDescriptor{Version: 1, Description: "AESGCM-256"},
		EncryptedSnapshot:   payload,
	}
}

func factorSourceID(b byte) domain.FactorSourceID {
	id := domain.FactorSourceID{Kind: types.FactorSourceKindDevice}
	id.Body[31] = b
	return id
}

func testSnapshotStore(t *testing.T, s domain.SnapshotStore) {
	t.Helper()

	if _, ok, err := s.LoadSnapshot(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	if err := s.SaveSnapshot(envelope("aa")); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := s.SaveSnapshot(envelope("bb")); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	got, ok, err := s.LoadSnapshot()
	if err != nil || !ok {
		t.Fatalf("load snapshot: ok=%v err=%v", ok, err)
	}
	if got != envelope("bb") {
		t.Fatalf("got %+v, want the latest snapshot", got)
	}

	if err := s.DeleteSnapshot(); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}
	if _, ok, err := s.LoadSnapshot(); err != nil || ok {
		t.Fatalf("after delete: ok=%v err=%v", ok, err)
	}
	if err := s.DeleteSnapshot(); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFileSnapshotStore(t *testing.T) {
	testSnapshotStore(t, store.NewFileSnapshotStore(t.TempDir()))
}

func TestFileSnapshotStore_SurvivesReopen(t *testing.T) {
	home := t.TempDir()
	if err := store.NewFileSnapshotStore(home).SaveSnapshot(envelope("cafe")); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	got, ok, err := store.NewFileSnapshotStore(home).LoadSnapshot()
	if err != nil || !ok {
		t.Fatalf("load snapshot: ok=%v err=%v", ok, err)
	}
	if got.EncryptedSnapshot != "cafe" {
		t.Fatalf("got %q", got.EncryptedSnapshot)
	}
}

func TestBoltSnapshotStore(t *testing.T) {
	s, err := store.OpenBoltSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	testSnapshotStore(t, s)
}

func TestBoltSnapshotStore_History(t *testing.T) {
	home := t.TempDir()
	s, err := store.OpenBoltSnapshotStore(home)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, payload := range []string{"01", "02", "03"} {
		if err := s.SaveSnapshot(envelope(payload)); err != nil {
			t.Fatalf("save %s: %v", payload, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = store.OpenBoltSnapshotStore(home)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	current, ok, err := s.LoadSnapshot()
	if err != nil || !ok || current.EncryptedSnapshot != "03" {
		t.Fatalf("current = %+v ok=%v err=%v", current, ok, err)
	}
	history, err := s.History()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].EncryptedSnapshot != "01" || history[1].EncryptedSnapshot != "02" {
		t.Fatalf("history = %+v", history)
	}
}

func TestFileMnemonicStore_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ms domain.MnemonicStore = store.NewFileMnemonicStore(home, "pass").WithScryptParams(fastScrypt)

	id := factorSourceID(1)
	m := domain.MnemonicWithPassphrase{Mnemonic: "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong", Passphrase: "extra"}
	if err := ms.SaveMnemonic(id, m); err != nil {
		t.Fatalf("save mnemonic: %v", err)
	}

	got, ok, err := ms.LoadMnemonic(id)
	if err != nil || !ok {
		t.Fatalf("load mnemonic: ok=%v err=%v", ok, err)
	}
	if got != m {
		t.Fatalf("mismatch after load")
	}

	if _, ok, err := ms.LoadMnemonic(factorSourceID(2)); err != nil || ok {
		t.Fatalf("unknown id: ok=%v err=%v", ok, err)
	}

	if err := ms.DeleteMnemonic(id); err != nil {
		t.Fatalf("delete mnemonic: %v", err)
	}
	if _, ok, _ := ms.LoadMnemonic(id); ok {
		t.Fatal("mnemonic still present after delete")
	}
}

func TestFileMnemonicStore_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	id := factorSourceID(1)
	m := domain.MnemonicWithPassphrase{Mnemonic: "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong"}

	if err := store.NewFileMnemonicStore(home, "correct").WithScryptParams(fastScrypt).SaveMnemonic(id, m); err != nil {
		t.Fatalf("save mnemonic: %v", err)
	}
	_, _, err := store.NewFileMnemonicStore(home, "wrong").LoadMnemonic(id)
	if !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
}

func TestMemoryMnemonicStore(t *testing.T) {
	var ms domain.MnemonicStore = store.NewMemoryMnemonicStore()
	id := factorSourceID(7)
	m := domain.MnemonicWithPassphrase{Mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"}

	if err := ms.SaveMnemonic(id, m); err != nil {
		t.Fatalf("save mnemonic: %v", err)
	}
	got, ok, err := ms.LoadMnemonic(id)
	if err != nil || !ok || got != m {
		t.Fatalf("load mnemonic: ok=%v err=%v", ok, err)
	}
	if err := ms.DeleteMnemonic(id); err != nil {
		t.Fatalf("delete mnemonic: %v", err)
	}
	if _, ok, _ := ms.LoadMnemonic(id); ok {
		t.Fatal("mnemonic still present after delete")
	}
}

func TestLayeredMnemonicStore(t *testing.T) {
	persisted := store.NewFileMnemonicStore(t.TempDir(), "pass").WithScryptParams(fastScrypt)
	session := store.NewMemoryMnemonicStore()
	ms := store.NewLayeredMnemonicStore(persisted, session)

	device := factorSourceID(1)
	offDevice := factorSourceID(2)
	m := domain.MnemonicWithPassphrase{Mnemonic: "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong"}

	if err := ms.SaveMnemonic(device, m); err != nil {
		t.Fatalf("save mnemonic: %v", err)
	}
	if _, ok, _ := persisted.LoadMnemonic(device); !ok {
		t.Fatal("write did not reach the primary store")
	}
	if _, ok, _ := session.LoadMnemonic(device); ok {
		t.Fatal("write reached the session store")
	}

	if err := session.SaveMnemonic(offDevice, m); err != nil {
		t.Fatalf("save session mnemonic: %v", err)
	}
	if got, ok, err := ms.LoadMnemonic(offDevice); err != nil || !ok || got != m {
		t.Fatalf("load through layers: ok=%v err=%v", ok, err)
	}

	session.Clear()
	if _, ok, _ := ms.LoadMnemonic(offDevice); ok {
		t.Fatal("session mnemonic survived Clear")
	}

	if err := ms.DeleteMnemonic(device); err != nil {
		t.Fatalf("delete mnemonic: %v", err)
	}
	if _, ok, _ := ms.LoadMnemonic(device); ok {
		t.Fatal("mnemonic still present after delete")
	}
}
