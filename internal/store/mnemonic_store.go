package store

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"walletcore/internal/domain"
	"walletcore/internal/util/memzero"
)

const mnemonicsDir = "mnemonics"

// FileMnemonicStore keeps one sealed file per factor source. Each mnemonic is
// encrypted under the keystore passphrase and bound to its factor source id.
type FileMnemonicStore struct {
	dir        string
	passphrase string
	params     ScryptParams
	mu         sync.Mutex
}

// NewFileMnemonicStore returns a FileMnemonicStore rooted at dir/mnemonics.
func NewFileMnemonicStore(dir, passphrase string) *FileMnemonicStore {
	return &FileMnemonicStore{
		dir:        filepath.Join(dir, mnemonicsDir),
		passphrase: passphrase,
		params:     DefaultScryptParams,
	}
}

// WithScryptParams overrides the key derivation cost for newly sealed files.
func (s *FileMnemonicStore) WithScryptParams(p ScryptParams) *FileMnemonicStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
	return s
}

func (s *FileMnemonicStore) path(id domain.FactorSourceID) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.json", id.Kind, hex.EncodeToString(id.Body[:])))
}

// SaveMnemonic seals m and writes it for id, replacing any previous file.
func (s *FileMnemonicStore) SaveMnemonic(id domain.FactorSourceID, m domain.MnemonicWithPassphrase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	blob, err := seal(s.passphrase, raw, []byte(id.String()), s.params)
	if err != nil {
		return fmt.Errorf("seal mnemonic %s: %w", id, err)
	}
	return writeFile(s.path(id), blob, 0o600)
}

// LoadMnemonic opens the mnemonic for id, reporting false when none is stored.
func (s *FileMnemonicStore) LoadMnemonic(id domain.FactorSourceID) (domain.MnemonicWithPassphrase, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := readFile(s.path(id))
	if err != nil || blob == nil {
		return domain.MnemonicWithPassphrase{}, false, err
	}
	raw, err := open(s.passphrase, blob, []byte(id.String()))
	if err != nil {
		return domain.MnemonicWithPassphrase{}, false, fmt.Errorf("open mnemonic %s: %w", id, err)
	}
	defer memzero.Zero(raw)

	var m domain.MnemonicWithPassphrase
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.MnemonicWithPassphrase{}, false, err
	}
	return m, true, nil
}

// DeleteMnemonic removes the sealed file for id if present.
func (s *FileMnemonicStore) DeleteMnemonic(id domain.FactorSourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path(id))
}

// MemoryMnemonicStore keeps mnemonics in process memory only.
type MemoryMnemonicStore struct {
	mu        sync.Mutex
	mnemonics map[domain.FactorSourceID]domain.MnemonicWithPassphrase
}

// NewMemoryMnemonicStore returns an empty MemoryMnemonicStore.
func NewMemoryMnemonicStore() *MemoryMnemonicStore {
	return &MemoryMnemonicStore{mnemonics: make(map[domain.FactorSourceID]domain.MnemonicWithPassphrase)}
}

func (s *MemoryMnemonicStore) SaveMnemonic(id domain.FactorSourceID, m domain.MnemonicWithPassphrase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mnemonics[id] = m
	return nil
}

func (s *MemoryMnemonicStore) LoadMnemonic(id domain.FactorSourceID) (domain.MnemonicWithPassphrase, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mnemonics[id]
	return m, ok, nil
}

func (s *MemoryMnemonicStore) DeleteMnemonic(id domain.FactorSourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mnemonics, id)
	return nil
}

// Clear forgets every mnemonic.
func (s *MemoryMnemonicStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.mnemonics)
}

// LayeredMnemonicStore reads through a list of stores in order and writes to
// the first one. It lets mnemonics entered for a single session sit next to
// the persisted ones.
type LayeredMnemonicStore struct {
	layers []domain.MnemonicStore
}

// NewLayeredMnemonicStore returns a store over layers. primary receives writes.
func NewLayeredMnemonicStore(primary domain.MnemonicStore, rest ...domain.MnemonicStore) *LayeredMnemonicStore {
	return &LayeredMnemonicStore{layers: append([]domain.MnemonicStore{primary}, rest...)}
}

func (s *LayeredMnemonicStore) SaveMnemonic(id domain.FactorSourceID, m domain.MnemonicWithPassphrase) error {
	return s.layers[0].SaveMnemonic(id, m)
}

func (s *LayeredMnemonicStore) LoadMnemonic(id domain.FactorSourceID) (domain.MnemonicWithPassphrase, bool, error) {
	for _, l := range s.layers {
		m, ok, err := l.LoadMnemonic(id)
		if err != nil || ok {
			return m, ok, err
		}
	}
	return domain.MnemonicWithPassphrase{}, false, nil
}

// DeleteMnemonic removes id from every layer.
func (s *LayeredMnemonicStore) DeleteMnemonic(id domain.FactorSourceID) error {
	var errs []error
	for _, l := range s.layers {
		if err := l.DeleteMnemonic(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compile-time assertions that the stores implement domain.MnemonicStore.
var (
	_ domain.MnemonicStore = (*FileMnemonicStore)(nil)
	_ domain.MnemonicStore = (*MemoryMnemonicStore)(nil)
	_ domain.MnemonicStore = (*LayeredMnemonicStore)(nil)
)
