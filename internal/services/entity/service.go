package entity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/profile"
)

// ErrMnemonicUnavailable is returned when a mnemonic factor source has no
// mnemonic in the store.
var ErrMnemonicUnavailable = errors.New("mnemonic for factor source is not available")

// Service derives keys for new entities.
type Service struct {
	mnemonics domain.MnemonicStore
	device    domain.DeviceTransport
	now       func() time.Time
	log       *zap.Logger
}

// New returns an entity service. device may be nil when no hardware wallet is
// in use.
func New(mnemonics domain.MnemonicStore, device domain.DeviceTransport, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{mnemonics: mnemonics, device: device, now: time.Now, log: log.Named("entity")}
}

// WithClock replaces the clock used to stamp factor source usage.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateAccount derives the next account of the factor source on the network.
func (s *Service) CreateAccount(
	ctx context.Context,
	p domain.Profile,
	req domain.CreateAccountRequest,
) (domain.Profile, domain.Account, error) {
	scheme := req.Scheme
	if scheme == "" {
		scheme = types.SchemeCAP26
	}
	fs, err := profile.FactorSource(p, req.FactorSourceID)
	if err != nil {
		return domain.Profile{}, domain.Account{}, err
	}
	if !fs.Common.CryptoParameters.Supports(scheme) {
		return domain.Profile{}, domain.Account{}, fmt.Errorf("factor source %s does not support %s paths: %w", fs.ID, scheme, domain.ErrUnsupportedPath)
	}
	index, err := fs.NextIndex(req.NetworkID, types.EntityKindAccount)
	if err != nil {
		return domain.Profile{}, domain.Account{}, err
	}

	var path domain.DerivationPath
	if scheme == types.SchemeBIP44Olympia {
		path, err = types.NewOlympiaPath(index)
	} else {
		path, err = types.NewCAP26Path(req.NetworkID, types.EntityKindAccount, types.KeyRoleTransactionSigning, index)
	}
	if err != nil {
		return domain.Profile{}, domain.Account{}, err
	}

	instance, address, err := s.instanceAndAddress(ctx, fs, req.NetworkID, types.EntityKindAccount, path)
	if err != nil {
		return domain.Profile{}, domain.Account{}, err
	}

	appearance := uint8(index % types.AppearanceGradientCount)
	if req.AppearanceHint != nil {
		appearance = *req.AppearanceHint % types.AppearanceGradientCount
	}
	account := domain.Account{
		NetworkID:        req.NetworkID,
		Address:          address,
		DisplayName:      req.DisplayName,
		SecurityState:    types.NewUnsecured(instance, nil),
		AppearanceID:     appearance,
		Flags:            []types.EntityFlag{},
		OnLedgerSettings: types.OnLedgerSettings{ThirdPartyDeposits: types.DefaultThirdPartyDeposits()},
	}

	out, err := s.commit(p, fs, req.NetworkID, types.EntityKindAccount, func(q domain.Profile) (domain.Profile, error) {
		return profile.AddAccount(q, account)
	})
	if err != nil {
		return domain.Profile{}, domain.Account{}, err
	}
	s.log.Info("account created",
		zap.String("address", string(address)),
		zap.Stringer("network", req.NetworkID),
		zap.Stringer("path", path),
		zap.Stringer("factorSource", fs.ID))
	return out, account, nil
}

// CreatePersona derives the next persona of the factor source on the network.
// The network must already hold an account.
func (s *Service) CreatePersona(
	ctx context.Context,
	p domain.Profile,
	req domain.CreatePersonaRequest,
) (domain.Profile, domain.Persona, error) {
	if _, ok := profile.Network(p, req.NetworkID); !ok {
		return domain.Profile{}, domain.Persona{}, fmt.Errorf("create persona on %s: %w", req.NetworkID, domain.ErrNetworkNotFound)
	}
	fs, err := profile.FactorSource(p, req.FactorSourceID)
	if err != nil {
		return domain.Profile{}, domain.Persona{}, err
	}
	index, err := fs.NextIndex(req.NetworkID, types.EntityKindIdentity)
	if err != nil {
		return domain.Profile{}, domain.Persona{}, err
	}
	path, err := types.NewCAP26Path(req.NetworkID, types.EntityKindIdentity, types.KeyRoleTransactionSigning, index)
	if err != nil {
		return domain.Profile{}, domain.Persona{}, err
	}

	instance, address, err := s.instanceAndAddress(ctx, fs, req.NetworkID, types.EntityKindIdentity, path)
	if err != nil {
		return domain.Profile{}, domain.Persona{}, err
	}

	data := req.PersonaData
	if data.EmailAddresses == nil {
		data.EmailAddresses = []types.IdentifiedEntry{}
	}
	if data.PhoneNumbers == nil {
		data.PhoneNumbers = []types.IdentifiedEntry{}
	}
	persona := domain.Persona{
		NetworkID:     req.NetworkID,
		Address:       address,
		DisplayName:   req.DisplayName,
		SecurityState: types.NewUnsecured(instance, nil),
		Flags:         []types.EntityFlag{},
		PersonaData:   data,
	}

	out, err := s.commit(p, fs, req.NetworkID, types.EntityKindIdentity, func(q domain.Profile) (domain.Profile, error) {
		return profile.AddPersona(q, persona)
	})
	if err != nil {
		return domain.Profile{}, domain.Persona{}, err
	}
	s.log.Info("persona created",
		zap.String("address", string(address)),
		zap.Stringer("network", req.NetworkID),
		zap.Stringer("path", path),
		zap.Stringer("factorSource", fs.ID))
	return out, persona, nil
}

// AddAuthenticationSigningKey derives an authentication signing key at the
// entity's own index and records it next to its transaction signing key.
func (s *Service) AddAuthenticationSigningKey(
	ctx context.Context,
	p domain.Profile,
	address domain.Address,
) (domain.Profile, domain.FactorInstance, error) {
	var (
		security domain.SecurityState
		network  domain.NetworkID
		kind     domain.EntityKind
	)
	if a, ok := profile.FindAccount(p, address); ok {
		security, network, kind = a.SecurityState, a.NetworkID, types.EntityKindAccount
	} else if pe, ok := profile.FindPersona(p, address); ok {
		security, network, kind = pe.SecurityState, pe.NetworkID, types.EntityKindIdentity
	} else {
		return domain.Profile{}, domain.FactorInstance{}, fmt.Errorf("entity %s: %w", address, domain.ErrEntityNotFound)
	}
	if security.AuthenticationSigning != nil {
		return domain.Profile{}, domain.FactorInstance{}, fmt.Errorf("entity %s already has an authentication signing key", address)
	}

	tx := security.TransactionSigning
	if tx.DerivationPath.Scheme != types.SchemeCAP26 {
		return domain.Profile{}, domain.FactorInstance{}, fmt.Errorf("entity %s uses %s paths: %w", address, tx.DerivationPath.Scheme, domain.ErrUnsupportedPath)
	}
	path, err := types.NewCAP26Path(network, kind, types.KeyRoleAuthenticationSigning, tx.DerivationPath.Index)
	if err != nil {
		return domain.Profile{}, domain.FactorInstance{}, err
	}
	fs, err := profile.FactorSource(p, tx.FactorSourceID)
	if err != nil {
		return domain.Profile{}, domain.FactorInstance{}, err
	}
	keys, err := s.derive(ctx, fs, []domain.DerivationPath{path})
	if err != nil {
		return domain.Profile{}, domain.FactorInstance{}, err
	}
	instance := domain.FactorInstance{FactorSourceID: fs.ID, PublicKey: keys[0], DerivationPath: path}

	out, err := profile.AddAuthenticationSigning(p, address, instance)
	if err != nil {
		return domain.Profile{}, domain.FactorInstance{}, err
	}
	s.log.Info("authentication signing key added", zap.String("address", string(address)), zap.Stringer("path", path))
	return out, instance, nil
}

func (s *Service) instanceAndAddress(
	ctx context.Context,
	fs domain.FactorSource,
	network domain.NetworkID,
	kind domain.EntityKind,
	path domain.DerivationPath,
) (domain.FactorInstance, domain.Address, error) {
	keys, err := s.derive(ctx, fs, []domain.DerivationPath{path})
	if err != nil {
		return domain.FactorInstance{}, "", err
	}
	address, err := crypto.DeriveAddress(network, kind, keys[0])
	if err != nil {
		return domain.FactorInstance{}, "", err
	}
	return domain.FactorInstance{FactorSourceID: fs.ID, PublicKey: keys[0], DerivationPath: path}, address, nil
}

// commit advances the counter and applies add as one replacement of p.
func (s *Service) commit(
	p domain.Profile,
	fs domain.FactorSource,
	network domain.NetworkID,
	kind domain.EntityKind,
	add func(domain.Profile) (domain.Profile, error),
) (domain.Profile, error) {
	next, err := fs.WithIncrementedIndex(network, kind)
	if err != nil {
		return domain.Profile{}, err
	}
	out, err := profile.UpdateFactorSource(p, next.WithLastUsedOn(s.now()))
	if err != nil {
		return domain.Profile{}, err
	}
	return add(out)
}

// derive returns one public key per path from whatever holds the factor
// source's key material.
func (s *Service) derive(ctx context.Context, fs domain.FactorSource, paths []domain.DerivationPath) ([]domain.PublicKey, error) {
	switch fs.Kind() {
	case types.FactorSourceKindDevice, types.FactorSourceKindOffDeviceMnemonic:
		m, ok, err := s.mnemonics.LoadMnemonic(fs.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", fs.ID, ErrMnemonicUnavailable)
		}
		keys := make([]domain.PublicKey, 0, len(paths))
		for _, path := range paths {
			pk, err := crypto.DerivePublicKey(m, path, path.Curve())
			if err != nil {
				return nil, err
			}
			keys = append(keys, pk)
		}
		return keys, nil

	case types.FactorSourceKindLedger:
		if s.device == nil {
			return nil, domain.ErrNoDevice
		}
		s.log.Debug("waiting for hardware device", zap.Stringer("factorSource", fs.ID), zap.Int("paths", len(paths)))
		keys, err := s.device.DerivePublicKeys(ctx, fs.ID, paths)
		if err != nil {
			return nil, fmt.Errorf("derive on %s: %w", fs.ID, err)
		}
		if len(keys) != len(paths) {
			return nil, fmt.Errorf("device returned %d keys for %d paths", len(keys), len(paths))
		}
		for i, pk := range keys {
			if pk.Curve != paths[i].Curve() {
				return nil, &types.UnsupportedPathError{Path: paths[i], Curve: pk.Curve}
			}
		}
		return keys, nil

	default:
		return nil, fmt.Errorf("%s: %w", fs.ID, domain.ErrFactorSourceNotDerivable)
	}
}

// Compile-time assertion that Service implements domain.EntityService.
var _ domain.EntityService = (*Service)(nil)
