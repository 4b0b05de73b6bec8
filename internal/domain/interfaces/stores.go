package interfaces

import domaintypes "walletcore/internal/domain/types"

// MnemonicStore keeps the secrets of on-device mnemonic factor sources.
type MnemonicStore interface {
	SaveMnemonic(id domaintypes.FactorSourceID, m domaintypes.MnemonicWithPassphrase) error
	LoadMnemonic(id domaintypes.FactorSourceID) (domaintypes.MnemonicWithPassphrase, bool, error)
	DeleteMnemonic(id domaintypes.FactorSourceID) error
}

// SnapshotStore persists the encrypted profile snapshot.
type SnapshotStore interface {
	SaveSnapshot(s domaintypes.EncryptedSnapshot) error
	LoadSnapshot() (domaintypes.EncryptedSnapshot, bool, error)
	DeleteSnapshot() error
}
