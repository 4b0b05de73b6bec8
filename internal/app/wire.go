package app

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"walletcore/internal/device"
	"walletcore/internal/domain"
	"walletcore/internal/logging"
	entitysvc "walletcore/internal/services/entity"
	factorsourcesvc "walletcore/internal/services/factorsource"
	walletsvc "walletcore/internal/services/wallet"
	"walletcore/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Wallet    *walletsvc.Service
	Entities  *entitysvc.Service
	Sources   *factorsourcesvc.Service
	Snapshots domain.SnapshotStore
	Mnemonics domain.MnemonicStore
	Device    domain.DeviceTransport
	Log       *zap.Logger

	closers []func() error
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	w := &Wire{Log: log}

	// Snapshot store
	switch cfg.Store {
	case "", StoreFile:
		w.Snapshots = store.NewFileSnapshotStore(cfg.Home)
	case StoreBolt:
		bolt, err := store.OpenBoltSnapshotStore(cfg.Home)
		if err != nil {
			return nil, err
		}
		w.Snapshots = bolt
		w.closers = append(w.closers, bolt.Close)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	// Device mnemonics are sealed on disk; off-device ones only live in memory.
	session := store.NewMemoryMnemonicStore()
	w.Mnemonics = store.NewLayeredMnemonicStore(store.NewFileMnemonicStore(cfg.Home, cfg.KeystorePassphrase), session)
	w.closers = append(w.closers, func() error { session.Clear(); return nil })

	// Hardware wallet bridge (optional)
	if cfg.BridgeURL != "" {
		httpClient := cfg.HTTP
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		dc := device.NewHTTP(cfg.BridgeURL)
		dc.HTTP = httpClient
		w.Device = dc
	}

	// High-level services
	w.Entities = entitysvc.New(w.Mnemonics, w.Device, log)
	w.Sources = factorsourcesvc.New(w.Mnemonics, w.Device, log)
	w.Wallet = walletsvc.New(walletsvc.Deps{
		Snapshots: w.Snapshots,
		Mnemonics: w.Mnemonics,
		Session:   session,
		Entities:  w.Entities,
		Sources:   w.Sources,
		Host:      HostDevice(),
		Log:       log,
	})
	return w, nil
}

// Close releases the stores and flushes the logger.
func (w *Wire) Close() error {
	errs := []error{w.Wallet.Close()}
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i]())
	}
	_ = w.Log.Sync()
	return errors.Join(errs...)
}
