package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/profile"
	"walletcore/internal/snapshot"
)

// ErrProfileExists is returned by Create when a snapshot is already stored.
var ErrProfileExists = errors.New("a profile already exists")

// Deps are the collaborators of a Service.
type Deps struct {
	Snapshots domain.SnapshotStore
	// Mnemonics holds every mnemonic the wallet can derive from.
	Mnemonics domain.MnemonicStore
	// Session receives off-device mnemonics supplied for the lifetime of the
	// Service. It should be one of the layers of Mnemonics.
	Session  domain.MnemonicStore
	Entities domain.EntityService
	Sources  domain.FactorSourceService
	// Host describes this device; Date is filled in on every commit.
	Host domain.DeviceInfo
	Log  *zap.Logger
}

// Service serializes all profile mutations.
type Service struct {
	mu       sync.Mutex
	current  *domain.Profile
	password string
	provided []domain.FactorSourceID

	snapshots domain.SnapshotStore
	mnemonics domain.MnemonicStore
	session   domain.MnemonicStore
	entities  domain.EntityService
	sources   domain.FactorSourceService
	host      domain.DeviceInfo
	now       func() time.Time
	log       *zap.Logger
}

// New constructs a wallet Service. No profile is loaded until Open, Create
// or Import succeeds.
func New(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		snapshots: d.Snapshots,
		mnemonics: d.Mnemonics,
		session:   d.Session,
		entities:  d.Entities,
		sources:   d.Sources,
		host:      d.Host,
		now:       time.Now,
		log:       log.Named("wallet"),
	}
}

// WithClock replaces the clock used for header timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Exists reports whether a snapshot is stored.
func (s *Service) Exists() (bool, error) {
	_, ok, err := s.snapshots.LoadSnapshot()
	return ok, err
}

// Open decrypts the stored snapshot with password and makes it current.
func (s *Service) Open(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok, err := s.snapshots.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return domain.ErrNoProfile
	}
	p, err := snapshot.Decrypt(env, password)
	if err != nil {
		return err
	}
	s.current, s.password = &p, password
	s.log.Info("profile opened",
		zap.Stringer("id", p.Header.ID),
		zap.Int("accounts", p.Header.ContentHint.NumberOfAccountsOnAllNetworksInTotal))
	return nil
}

// Create makes a new profile protected by password. When m is nil a fresh
// 24 word mnemonic is generated. The mnemonic is returned so the caller can
// show it to the user once.
func (s *Service) Create(
	ctx context.Context,
	password, deviceName, deviceModel string,
	m *domain.MnemonicWithPassphrase,
) (domain.Profile, domain.MnemonicWithPassphrase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok, err := s.snapshots.LoadSnapshot(); err != nil {
		return domain.Profile{}, domain.MnemonicWithPassphrase{}, err
	} else if ok {
		return domain.Profile{}, domain.MnemonicWithPassphrase{}, ErrProfileExists
	}

	var mnemonic domain.MnemonicWithPassphrase
	if m != nil {
		mnemonic = *m
	} else {
		phrase, err := crypto.GenerateMnemonic(24)
		if err != nil {
			return domain.Profile{}, domain.MnemonicWithPassphrase{}, err
		}
		mnemonic = domain.MnemonicWithPassphrase{Mnemonic: phrase}
	}

	fs, err := s.sources.NewDevice(mnemonic, deviceName, deviceModel, true)
	if err != nil {
		return domain.Profile{}, domain.MnemonicWithPassphrase{}, err
	}
	p, err := profile.New(fs, s.hostNow(), uuid.New())
	if err != nil {
		return domain.Profile{}, domain.MnemonicWithPassphrase{}, err
	}

	s.password = password
	out, err := s.commit(ctx, p)
	if err != nil {
		s.password = ""
		if derr := s.mnemonics.DeleteMnemonic(fs.ID); derr != nil {
			s.log.Warn("could not remove mnemonic of abandoned profile", zap.Error(derr))
		}
		return domain.Profile{}, domain.MnemonicWithPassphrase{}, err
	}
	s.log.Info("profile created", zap.Stringer("id", out.Header.ID), zap.Stringer("factorSource", fs.ID))
	return out, mnemonic, nil
}

// Profile returns a copy of the current profile.
func (s *Service) Profile() (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Profile{}, domain.ErrNoProfile
	}
	return s.current.Clone(), nil
}

// Update applies fn to the current profile and commits the result.
func (s *Service) Update(ctx context.Context, fn func(domain.Profile) (domain.Profile, error)) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, fn)
}

func (s *Service) update(ctx context.Context, fn func(domain.Profile) (domain.Profile, error)) (domain.Profile, error) {
	if s.current == nil {
		return domain.Profile{}, domain.ErrNoProfile
	}
	next, err := fn(s.current.Clone())
	if err != nil {
		return domain.Profile{}, err
	}
	return s.commit(ctx, next)
}

// commit persists p and makes it current. Callers hold s.mu.
func (s *Service) commit(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}
	p = profile.Touch(p, s.hostNow())
	if err := profile.Validate(p); err != nil {
		return domain.Profile{}, err
	}
	env, err := snapshot.Encrypt(p, s.password)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := s.snapshots.SaveSnapshot(env); err != nil {
		return domain.Profile{}, fmt.Errorf("save snapshot: %w", err)
	}
	s.current = &p
	s.log.Debug("snapshot saved", zap.Time("lastModified", p.Header.LastModified))
	return p.Clone(), nil
}

func (s *Service) hostNow() domain.DeviceInfo {
	host := s.host
	host.Date = s.now().UTC()
	return host
}

// CreateAccount creates an account and commits it.
func (s *Service) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (domain.Account, error) {
	var account domain.Account
	_, err := s.Update(ctx, func(p domain.Profile) (domain.Profile, error) {
		next, a, err := s.entities.CreateAccount(ctx, p, req)
		account = a
		return next, err
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// CreatePersona creates a persona and commits it.
func (s *Service) CreatePersona(ctx context.Context, req domain.CreatePersonaRequest) (domain.Persona, error) {
	var persona domain.Persona
	_, err := s.Update(ctx, func(p domain.Profile) (domain.Profile, error) {
		next, pe, err := s.entities.CreatePersona(ctx, p, req)
		persona = pe
		return next, err
	})
	if err != nil {
		return domain.Persona{}, err
	}
	return persona, nil
}

// AddAuthenticationSigningKey derives and commits an authentication key for
// the entity at address.
func (s *Service) AddAuthenticationSigningKey(ctx context.Context, address domain.Address) (domain.FactorInstance, error) {
	var instance domain.FactorInstance
	_, err := s.Update(ctx, func(p domain.Profile) (domain.Profile, error) {
		next, fi, err := s.entities.AddAuthenticationSigningKey(ctx, p, address)
		instance = fi
		return next, err
	})
	if err != nil {
		return domain.FactorInstance{}, err
	}
	return instance, nil
}

// AddFactorSource commits fs to the profile.
func (s *Service) AddFactorSource(ctx context.Context, fs domain.FactorSource) (domain.Profile, error) {
	out, err := s.Update(ctx, func(p domain.Profile) (domain.Profile, error) {
		return profile.AddFactorSource(p, fs)
	})
	if err != nil {
		return domain.Profile{}, err
	}
	s.log.Info("factor source added", zap.Stringer("id", fs.ID))
	return out, nil
}

// AddLedger identifies the connected hardware wallet and adds it.
func (s *Service) AddLedger(ctx context.Context, name string) (domain.FactorSource, error) {
	var fs domain.FactorSource
	_, err := s.Update(ctx, func(p domain.Profile) (domain.Profile, error) {
		var err error
		if fs, err = s.sources.NewLedger(ctx, name); err != nil {
			return domain.Profile{}, err
		}
		return profile.AddFactorSource(p, fs)
	})
	if err != nil {
		return domain.FactorSource{}, err
	}
	return fs, nil
}

// AddOffDeviceMnemonic adds an off-device mnemonic factor source and keeps m
// available for the rest of the session.
func (s *Service) AddOffDeviceMnemonic(ctx context.Context, m domain.MnemonicWithPassphrase, label string) (domain.FactorSource, error) {
	fs, err := s.sources.NewOffDeviceMnemonic(m, label)
	if err != nil {
		return domain.FactorSource{}, err
	}
	if _, err := s.AddFactorSource(ctx, fs); err != nil {
		return domain.FactorSource{}, err
	}
	if _, err := s.ProvideMnemonic(m); err != nil {
		return domain.FactorSource{}, err
	}
	return fs, nil
}

// ProvideMnemonic makes an off-device mnemonic usable until Close. The
// factor source it identifies must already be in the profile.
func (s *Service) ProvideMnemonic(m domain.MnemonicWithPassphrase) (domain.FactorSourceID, error) {
	if err := crypto.ValidateMnemonic(m); err != nil {
		return domain.FactorSourceID{}, err
	}
	id, err := crypto.FactorSourceIDFromMnemonic(types.FactorSourceKindOffDeviceMnemonic, m)
	if err != nil {
		return domain.FactorSourceID{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.FactorSourceID{}, domain.ErrNoProfile
	}
	if _, err := profile.FactorSource(*s.current, id); err != nil {
		return domain.FactorSourceID{}, err
	}
	if err := s.session.SaveMnemonic(id, m); err != nil {
		return domain.FactorSourceID{}, err
	}
	s.provided = append(s.provided, id)
	return id, nil
}

// Export encrypts the current profile under password and returns the
// envelope JSON.
func (s *Service) Export(password string) ([]byte, error) {
	p, err := s.Profile()
	if err != nil {
		return nil, err
	}
	env, err := snapshot.Encrypt(p, password)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

// ExportPlaintext returns the unencrypted snapshot JSON of the current
// profile.
func (s *Service) ExportPlaintext() ([]byte, error) {
	p, err := s.Profile()
	if err != nil {
		return nil, err
	}
	return snapshot.Marshal(p)
}

// Import replaces the current profile with an exported one. password opens
// an encrypted export and is ignored for plaintext ones. The imported profile
// is stored under the password of the open profile, or under password when
// none is open. Factor sources the open profile shares with the export keep
// their higher next-index counters, so an older export never reissues an index.
func (s *Service) Import(ctx context.Context, data []byte, password string) (domain.Profile, error) {
	imported, err := snapshot.Open(data, password)
	if err != nil {
		return domain.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.password
	if s.current == nil {
		s.password = password
	} else {
		imported = profile.MergeNextIndices(imported, *s.current)
	}
	out, err := s.commit(ctx, imported)
	if err != nil {
		s.password = previous
		return domain.Profile{}, err
	}
	s.log.Info("profile imported",
		zap.Stringer("id", out.Header.ID),
		zap.Int("accounts", out.Header.ContentHint.NumberOfAccountsOnAllNetworksInTotal))
	return out, nil
}

// ChangePassword re-encrypts the current profile under password.
func (s *Service) ChangePassword(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.ErrNoProfile
	}
	previous := s.password
	s.password = password
	if _, err := s.commit(ctx, s.current.Clone()); err != nil {
		s.password = previous
		return err
	}
	s.log.Info("profile password changed")
	return nil
}

// Reset deletes the stored snapshot and the mnemonics of the current
// profile's factor sources, and forgets the profile.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.current != nil {
		for _, fs := range s.current.FactorSources {
			if err := s.mnemonics.DeleteMnemonic(fs.ID); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := s.snapshots.DeleteSnapshot(); err != nil {
		errs = append(errs, err)
	}
	s.forget()
	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.log.Info("wallet reset")
	return nil
}

// Close forgets the profile, the password and every mnemonic provided during
// the session.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, id := range s.provided {
		if err := s.session.DeleteMnemonic(id); err != nil {
			errs = append(errs, err)
		}
	}
	s.forget()
	return errors.Join(errs...)
}

func (s *Service) forget() {
	s.current = nil
	s.password = ""
	s.provided = nil
}
