package profile

import (
	"fmt"
	"slices"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// AddAccount appends account to its network, creating the network when the
// profile has none for it yet.
func AddAccount(p domain.Profile, account domain.Account) (domain.Profile, error) {
	if ContainsAddress(p, account.Address) {
		return domain.Profile{}, &domain.AddressCollisionError{Address: account.Address}
	}
	out := p.Clone()
	if i := networkIndex(out, account.NetworkID); i >= 0 {
		out.Networks[i].Accounts = append(out.Networks[i].Accounts, account.Clone())
	} else {
		out.Networks = append(out.Networks, domain.Network{
			NetworkID:       account.NetworkID,
			Accounts:        []domain.Account{account.Clone()},
			Personas:        []domain.Persona{},
			AuthorizedDapps: []domain.AuthorizedDapp{},
		})
	}
	return withContentHint(out), nil
}

// AddPersona appends persona to its network. The network must already hold an
// account.
func AddPersona(p domain.Profile, persona domain.Persona) (domain.Profile, error) {
	if ContainsAddress(p, persona.Address) {
		return domain.Profile{}, &domain.AddressCollisionError{Address: persona.Address}
	}
	i := networkIndex(p, persona.NetworkID)
	if i < 0 {
		return domain.Profile{}, fmt.Errorf("add persona on %s: %w", persona.NetworkID, domain.ErrNetworkNotFound)
	}
	out := p.Clone()
	out.Networks[i].Personas = append(out.Networks[i].Personas, persona.Clone())
	return withContentHint(out), nil
}

func locateAccount(p domain.Profile, addr domain.Address) (int, int, bool) {
	for ni, n := range p.Networks {
		for ai, a := range n.Accounts {
			if a.Address == addr {
				return ni, ai, true
			}
		}
	}
	return 0, 0, false
}

func locatePersona(p domain.Profile, addr domain.Address) (int, int, bool) {
	for ni, n := range p.Networks {
		for pi, pe := range n.Personas {
			if pe.Address == addr {
				return ni, pi, true
			}
		}
	}
	return 0, 0, false
}

// UpdateAccount replaces the account with the same address. Its network and
// transaction signing key cannot change.
func UpdateAccount(p domain.Profile, account domain.Account) (domain.Profile, error) {
	ni, ai, ok := locateAccount(p, account.Address)
	if !ok {
		return domain.Profile{}, fmt.Errorf("account %s: %w", account.Address, domain.ErrEntityNotFound)
	}
	old := p.Networks[ni].Accounts[ai]
	if old.NetworkID != account.NetworkID || !old.SecurityState.TransactionSigning.Equal(account.SecurityState.TransactionSigning) {
		return domain.Profile{}, fmt.Errorf("update account %s: network and transaction signing key are immutable", account.Address)
	}
	out := p.Clone()
	out.Networks[ni].Accounts[ai] = account.Clone()
	return out, nil
}

// UpdatePersona replaces the persona with the same address. Its network and
// transaction signing key cannot change.
func UpdatePersona(p domain.Profile, persona domain.Persona) (domain.Profile, error) {
	ni, pi, ok := locatePersona(p, persona.Address)
	if !ok {
		return domain.Profile{}, fmt.Errorf("persona %s: %w", persona.Address, domain.ErrEntityNotFound)
	}
	old := p.Networks[ni].Personas[pi]
	if old.NetworkID != persona.NetworkID || !old.SecurityState.TransactionSigning.Equal(persona.SecurityState.TransactionSigning) {
		return domain.Profile{}, fmt.Errorf("update persona %s: network and transaction signing key are immutable", persona.Address)
	}
	out := p.Clone()
	out.Networks[ni].Personas[pi] = persona.Clone()
	return out, nil
}

// RenameAccount sets the display name of the account at addr.
func RenameAccount(p domain.Profile, addr domain.Address, name string) (domain.Profile, error) {
	a, ok := FindAccount(p, addr)
	if !ok {
		return domain.Profile{}, fmt.Errorf("account %s: %w", addr, domain.ErrEntityNotFound)
	}
	a = a.Clone()
	a.DisplayName = name
	return UpdateAccount(p, a)
}

// UpdateThirdPartyDeposits replaces the deposit settings of the account at addr.
func UpdateThirdPartyDeposits(p domain.Profile, addr domain.Address, deposits types.ThirdPartyDeposits) (domain.Profile, error) {
	a, ok := FindAccount(p, addr)
	if !ok {
		return domain.Profile{}, fmt.Errorf("account %s: %w", addr, domain.ErrEntityNotFound)
	}
	a = a.Clone()
	a.OnLedgerSettings.ThirdPartyDeposits = deposits
	return UpdateAccount(p, a)
}

// AddAuthenticationSigning records an authentication signing instance on the
// account or persona at addr. It is the only permitted security state change.
func AddAuthenticationSigning(p domain.Profile, addr domain.Address, instance domain.FactorInstance) (domain.Profile, error) {
	path := instance.DerivationPath
	if path.Scheme != types.SchemeCAP26 || path.KeyRole != types.KeyRoleAuthenticationSigning {
		return domain.Profile{}, fmt.Errorf("add authentication signing to %s: path %s is not an authentication signing path", addr, path)
	}
	if ni, ai, ok := locateAccount(p, addr); ok {
		out := p.Clone()
		a := &out.Networks[ni].Accounts[ai]
		a.SecurityState = a.SecurityState.WithAuthenticationSigning(instance)
		return out, nil
	}
	if ni, pi, ok := locatePersona(p, addr); ok {
		out := p.Clone()
		pe := &out.Networks[ni].Personas[pi]
		pe.SecurityState = pe.SecurityState.WithAuthenticationSigning(instance)
		return out, nil
	}
	return domain.Profile{}, fmt.Errorf("entity %s: %w", addr, domain.ErrEntityNotFound)
}

func addFlag(flags []types.EntityFlag, flag types.EntityFlag) []types.EntityFlag {
	if slices.Contains(flags, flag) {
		return flags
	}
	return append(flags, flag)
}

// HideAccount marks the account deleted by the user and stops sharing it with
// any dApp. The account and its derivation index stay in the profile.
func HideAccount(p domain.Profile, addr domain.Address) (domain.Profile, error) {
	ni, ai, ok := locateAccount(p, addr)
	if !ok {
		return domain.Profile{}, fmt.Errorf("account %s: %w", addr, domain.ErrEntityNotFound)
	}
	out := p.Clone()
	n := &out.Networks[ni]
	n.Accounts[ai].Flags = addFlag(n.Accounts[ai].Flags, types.EntityFlagDeletedByUser)
	for di := range n.AuthorizedDapps {
		for ri := range n.AuthorizedDapps[di].ReferencesToAuthorizedPersonas {
			ref := &n.AuthorizedDapps[di].ReferencesToAuthorizedPersonas[ri]
			if ref.SharedAccounts != nil {
				ref.SharedAccounts.IDs = slices.DeleteFunc(ref.SharedAccounts.IDs, func(a domain.Address) bool { return a == addr })
			}
		}
	}
	return out, nil
}

// HidePersona marks the persona deleted by the user and removes it from every
// dApp. dApps left without personas are dropped.
func HidePersona(p domain.Profile, addr domain.Address) (domain.Profile, error) {
	ni, pi, ok := locatePersona(p, addr)
	if !ok {
		return domain.Profile{}, fmt.Errorf("persona %s: %w", addr, domain.ErrEntityNotFound)
	}
	out := p.Clone()
	n := &out.Networks[ni]
	n.Personas[pi].Flags = addFlag(n.Personas[pi].Flags, types.EntityFlagDeletedByUser)
	dapps := n.AuthorizedDapps[:0]
	for _, d := range n.AuthorizedDapps {
		d.ReferencesToAuthorizedPersonas = slices.DeleteFunc(d.ReferencesToAuthorizedPersonas, func(r types.AuthorizedPersonaReference) bool {
			return r.IdentityAddress == addr
		})
		if len(d.ReferencesToAuthorizedPersonas) > 0 {
			dapps = append(dapps, d)
		}
	}
	n.AuthorizedDapps = dapps
	return out, nil
}

// UnhideAllEntities clears the deleted-by-user flag on every entity.
func UnhideAllEntities(p domain.Profile) domain.Profile {
	out := p.Clone()
	hiddenFlag := func(f types.EntityFlag) bool { return f == types.EntityFlagDeletedByUser }
	for ni := range out.Networks {
		n := &out.Networks[ni]
		for ai := range n.Accounts {
			n.Accounts[ai].Flags = slices.DeleteFunc(n.Accounts[ai].Flags, hiddenFlag)
		}
		for pi := range n.Personas {
			n.Personas[pi].Flags = slices.DeleteFunc(n.Personas[pi].Flags, hiddenFlag)
		}
	}
	return out
}
