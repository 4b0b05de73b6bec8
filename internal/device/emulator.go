package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// ErrWrongDevice is returned when the connected device is not the factor
// source a derivation was requested for.
var ErrWrongDevice = errors.New("connected device does not match factor source")

// Emulator is an in-process hardware wallet backed by a mnemonic.
type Emulator struct {
	mnemonic domain.MnemonicWithPassphrase
	info     domain.HardwareDeviceInfo
	latency  time.Duration
}

// NewEmulator returns an emulated device of the given model. Its factor source
// id is computed the way a real Ledger's would be.
func NewEmulator(m domain.MnemonicWithPassphrase, model string) (*Emulator, error) {
	id, err := crypto.FactorSourceIDFromMnemonic(types.FactorSourceKindLedger, m)
	if err != nil {
		return nil, err
	}
	return &Emulator{mnemonic: m, info: domain.HardwareDeviceInfo{ID: id, Model: model}}, nil
}

// WithLatency makes every call wait d before answering, like a user confirming
// on the device.
func (e *Emulator) WithLatency(d time.Duration) *Emulator {
	e.latency = d
	return e
}

func (e *Emulator) wait(ctx context.Context) error {
	if e.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Emulator) DeviceInfo(ctx context.Context) (domain.HardwareDeviceInfo, error) {
	if err := e.wait(ctx); err != nil {
		return domain.HardwareDeviceInfo{}, err
	}
	return e.info, nil
}

func (e *Emulator) DerivePublicKeys(ctx context.Context, id domain.FactorSourceID, paths []domain.DerivationPath) ([]domain.PublicKey, error) {
	if id != e.info.ID {
		return nil, fmt.Errorf("derive on %s: %w", id, ErrWrongDevice)
	}
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.PublicKey, 0, len(paths))
	for _, p := range paths {
		pk, err := crypto.DerivePublicKey(e.mnemonic, p, p.Curve())
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	return out, nil
}

var _ domain.DeviceTransport = (*Emulator)(nil)
