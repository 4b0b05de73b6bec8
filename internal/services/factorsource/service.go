package factorsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// DefaultWordCount is the mnemonic length used for new device factor sources.
const DefaultWordCount = 24

// Service builds factor sources and stores the secrets of the ones that live
// on this device.
type Service struct {
	mnemonics domain.MnemonicStore
	device    domain.DeviceTransport
	now       func() time.Time
	log       *zap.Logger
}

// New returns a factor source service. device may be nil.
func New(mnemonics domain.MnemonicStore, device domain.DeviceTransport, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{mnemonics: mnemonics, device: device, now: time.Now, log: log.Named("factorsource")}
}

// WithClock replaces the clock used for addedOn and lastUsedOn.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate returns a fresh mnemonic without a passphrase.
func Generate(wordCount int) (domain.MnemonicWithPassphrase, error) {
	phrase, err := crypto.GenerateMnemonic(wordCount)
	if err != nil {
		return domain.MnemonicWithPassphrase{}, err
	}
	return domain.MnemonicWithPassphrase{Mnemonic: phrase}, nil
}

// NewDevice validates m, derives its id and saves it to the mnemonic store.
func (s *Service) NewDevice(m domain.MnemonicWithPassphrase, name, model string, main bool) (domain.FactorSource, error) {
	id, err := s.identify(types.FactorSourceKindDevice, m)
	if err != nil {
		return domain.FactorSource{}, err
	}
	if err := s.mnemonics.SaveMnemonic(id, m); err != nil {
		return domain.FactorSource{}, fmt.Errorf("save mnemonic: %w", err)
	}
	fs := types.NewDeviceFactorSource(id, types.CryptoParametersBabylon(), name, model, len(m.Words()), s.now(), main)
	s.log.Info("device factor source created", zap.Stringer("id", id), zap.Bool("main", main))
	return fs, nil
}

// NewLedger reads the id of the connected hardware wallet.
func (s *Service) NewLedger(ctx context.Context, name string) (domain.FactorSource, error) {
	if s.device == nil {
		return domain.FactorSource{}, domain.ErrNoDevice
	}
	info, err := s.device.DeviceInfo(ctx)
	if err != nil {
		return domain.FactorSource{}, fmt.Errorf("read device info: %w", err)
	}
	if info.ID.Kind != types.FactorSourceKindLedger {
		return domain.FactorSource{}, fmt.Errorf("device reported a %s id", info.ID.Kind)
	}
	fs := types.NewLedgerFactorSource(info.ID, name, info.Model, s.now())
	s.log.Info("ledger factor source created", zap.Stringer("id", info.ID), zap.String("model", info.Model))
	return fs, nil
}

// NewOffDeviceMnemonic validates m and derives its id. The mnemonic is not
// stored; it must be supplied again whenever keys are derived from it.
func (s *Service) NewOffDeviceMnemonic(m domain.MnemonicWithPassphrase, label string) (domain.FactorSource, error) {
	id, err := s.identify(types.FactorSourceKindOffDeviceMnemonic, m)
	if err != nil {
		return domain.FactorSource{}, err
	}
	fs := types.NewOffDeviceMnemonicFactorSource(id, label, len(m.Words()), s.now())
	s.log.Info("off-device mnemonic factor source created", zap.Stringer("id", id))
	return fs, nil
}

// NewTrustedContact names a person by the account they control.
func (s *Service) NewTrustedContact(account domain.Address, name, email string) (domain.FactorSource, error) {
	decoded, err := crypto.DecodeAddress(account)
	if err != nil {
		return domain.FactorSource{}, err
	}
	if !strings.HasPrefix(decoded.HRP, "account_") {
		return domain.FactorSource{}, fmt.Errorf("trusted contact %s: not an account address", account)
	}
	id := crypto.FactorSourceIDFromAddress(account)
	fs := types.NewTrustedContactFactorSource(id, name, email, account, s.now())
	s.log.Info("trusted contact factor source created", zap.Stringer("id", id))
	return fs, nil
}

func (s *Service) identify(kind domain.FactorSourceKind, m domain.MnemonicWithPassphrase) (domain.FactorSourceID, error) {
	if err := crypto.ValidateMnemonic(m); err != nil {
		return domain.FactorSourceID{}, err
	}
	return crypto.FactorSourceIDFromMnemonic(kind, m)
}

// Compile-time assertion that Service implements domain.FactorSourceService.
var _ domain.FactorSourceService = (*Service)(nil)
