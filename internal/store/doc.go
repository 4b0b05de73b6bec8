// Package store provides on-disk persistence for the wallet.
//
// It contains concrete implementations of the domain storage interfaces:
//   - Encrypted profile snapshots as a JSON file (FileSnapshotStore) or in a
//     bbolt database that also keeps every replaced snapshot (BoltSnapshotStore)
//   - Mnemonics of on-device factor sources, sealed under a keystore
//     passphrase (FileMnemonicStore), or held in memory (MemoryMnemonicStore)
//
// All methods are concurrency-safe via internal locking. Files are written
// atomically with mode 0600 and live under the configured home directory.
package store
