package store

import (
	"path/filepath"
	"sync"

	"walletcore/internal/domain"
)

const snapshotFilename = "profile.json"

// FileSnapshotStore keeps the encrypted profile snapshot in a single JSON file.
type FileSnapshotStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileSnapshotStore returns a FileSnapshotStore rooted at dir.
func NewFileSnapshotStore(dir string) *FileSnapshotStore {
	return &FileSnapshotStore{dir: dir}
}

func (s *FileSnapshotStore) path() string { return filepath.Join(s.dir, snapshotFilename) }

// SaveSnapshot atomically replaces the stored snapshot.
func (s *FileSnapshotStore) SaveSnapshot(snap domain.EncryptedSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path(), snap, 0o600)
}

// LoadSnapshot returns the stored snapshot, reporting false when there is none.
func (s *FileSnapshotStore) LoadSnapshot() (domain.EncryptedSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap domain.EncryptedSnapshot
	ok, err := readJSON(s.path(), &snap)
	if err != nil || !ok {
		return domain.EncryptedSnapshot{}, false, err
	}
	return snap, true, nil
}

// DeleteSnapshot removes the stored snapshot if present.
func (s *FileSnapshotStore) DeleteSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path())
}

// Compile-time assertion that FileSnapshotStore implements domain.SnapshotStore.
var _ domain.SnapshotStore = (*FileSnapshotStore)(nil)
