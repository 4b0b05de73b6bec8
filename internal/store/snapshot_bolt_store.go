package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"walletcore/internal/domain"
)

const boltFilename = "walletcore.db"

var (
	snapshotsBucket = []byte("snapshots")
	historyBucket   = []byte("history")
	currentKey      = []byte("current")
)

// BoltSnapshotStore keeps the encrypted profile snapshot in a bbolt database.
// Every snapshot it replaces is appended to a history bucket keyed by a
// big-endian sequence number.
type BoltSnapshotStore struct {
	db *bolt.DB
	mu sync.Mutex
}

// OpenBoltSnapshotStore opens (creating if needed) the database under dir.
func OpenBoltSnapshotStore(dir string) (*BoltSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(filepath.Join(dir, boltFilename), 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		return createBuckets(tx, snapshotsBucket, historyBucket)
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltSnapshotStore{db: db}, nil
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database file.
func (s *BoltSnapshotStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores snap as current, moving the previous one to history.
func (s *BoltSnapshotStore) SaveSnapshot(snap domain.EncryptedSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		current := tx.Bucket(snapshotsBucket)
		if prev := current.Get(currentKey); prev != nil {
			if err := appendHistory(tx.Bucket(historyBucket), prev); err != nil {
				return err
			}
		}
		return current.Put(currentKey, b)
	})
}

func appendHistory(bucket *bolt.Bucket, v []byte) error {
	seq, err := bucket.NextSequence()
	if err != nil {
		return err
	}
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], seq)
	// Values returned by Get are only valid for the life of the transaction.
	return bucket.Put(key[:], append([]byte(nil), v...))
}

// LoadSnapshot returns the current snapshot, reporting false when there is none.
func (s *BoltSnapshotStore) LoadSnapshot() (domain.EncryptedSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap domain.EncryptedSnapshot
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket).Get(currentKey)
		if b == nil {
			return nil
		}
		found = true
		return json.Unmarshal(b, &snap)
	})
	if err != nil || !found {
		return domain.EncryptedSnapshot{}, false, err
	}
	return snap, true, nil
}

// History returns every replaced snapshot, oldest first.
func (s *BoltSnapshotStore) History() ([]domain.EncryptedSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.EncryptedSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(historyBucket).ForEach(func(_, v []byte) error {
			var snap domain.EncryptedSnapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			out = append(out, snap)
			return nil
		})
	})
	return out, err
}

// DeleteSnapshot removes the current snapshot and the whole history.
func (s *BoltSnapshotStore) DeleteSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{snapshotsBucket, historyBucket} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		return createBuckets(tx, snapshotsBucket, historyBucket)
	})
}

// Compile-time assertion that BoltSnapshotStore implements domain.SnapshotStore.
var _ domain.SnapshotStore = (*BoltSnapshotStore)(nil)
