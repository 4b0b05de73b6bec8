package entity

import (
	"go.uber.org/zap"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// Mismatch is a stored key or address that its factor source does not
// reproduce.
type Mismatch struct {
	Address domain.Address
	Path    domain.DerivationPath
	Reason  string
}

// VerifyProfile re-derives every factor instance backed by a stored mnemonic
// at its recorded path and checks the key and, for transaction signing keys,
// the address. Instances of other factor sources are skipped.
func (s *Service) VerifyProfile(p domain.Profile) ([]Mismatch, error) {
	mnemonics := make(map[domain.FactorSourceID]domain.MnemonicWithPassphrase)
	for _, fs := range p.FactorSources {
		if fs.Kind() != types.FactorSourceKindDevice && fs.Kind() != types.FactorSourceKindOffDeviceMnemonic {
			continue
		}
		m, ok, err := s.mnemonics.LoadMnemonic(fs.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			mnemonics[fs.ID] = m
		}
	}

	var out []Mismatch
	check := func(address domain.Address, network domain.NetworkID, kind domain.EntityKind, state domain.SecurityState) error {
		for _, fi := range state.FactorInstances() {
			m, ok := mnemonics[fi.FactorSourceID]
			if !ok {
				continue
			}
			valid, err := crypto.ValidateFactorInstance(fi, m)
			if err != nil {
				return err
			}
			if !valid {
				out = append(out, Mismatch{Address: address, Path: fi.DerivationPath, Reason: "public key does not match factor source"})
				continue
			}
			if fi.DerivationPath.KeyRole == types.KeyRoleAuthenticationSigning {
				continue
			}
			derived, err := crypto.DeriveAddress(network, kind, fi.PublicKey)
			if err != nil {
				return err
			}
			if derived != address {
				out = append(out, Mismatch{Address: address, Path: fi.DerivationPath, Reason: "address does not match public key"})
			}
		}
		return nil
	}

	for _, n := range p.Networks {
		for _, a := range n.Accounts {
			if err := check(a.Address, n.NetworkID, types.EntityKindAccount, a.SecurityState); err != nil {
				return nil, err
			}
		}
		for _, pe := range n.Personas {
			if err := check(pe.Address, n.NetworkID, types.EntityKindIdentity, pe.SecurityState); err != nil {
				return nil, err
			}
		}
	}
	if len(out) > 0 {
		s.log.Warn("profile verification found mismatches", zap.Int("count", len(out)))
	}
	return out, nil
}
