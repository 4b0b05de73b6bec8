package profile

import (
	"errors"
	"fmt"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

type entityRef struct {
	address  domain.Address
	network  domain.NetworkID
	kind     domain.EntityKind
	security domain.SecurityState
}

func entities(p domain.Profile) []entityRef {
	var out []entityRef
	for _, n := range p.Networks {
		for _, a := range n.Accounts {
			out = append(out, entityRef{a.Address, a.NetworkID, types.EntityKindAccount, a.SecurityState})
		}
		for _, pe := range n.Personas {
			out = append(out, entityRef{pe.Address, pe.NetworkID, types.EntityKindIdentity, pe.SecurityState})
		}
	}
	return out
}

// Validate checks every profile invariant and reports all violations, each
// wrapping domain.ErrInvalidProfile.
func Validate(p domain.Profile) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidProfile}, args...)...))
	}

	if p.Header.SnapshotVersion < types.MinSupportedSnapshotVersion {
		fail("snapshot version %d below %d", p.Header.SnapshotVersion, types.MinSupportedSnapshotVersion)
	}
	if len(p.FactorSources) == 0 {
		fail("no factor sources")
	}

	sources := make(map[domain.FactorSourceID]domain.FactorSource, len(p.FactorSources))
	for _, fs := range p.FactorSources {
		if _, dup := sources[fs.ID]; dup {
			fail("duplicate factor source %s", fs.ID)
		}
		sources[fs.ID] = fs
	}

	networks := make(map[domain.NetworkID]bool, len(p.Networks))
	for _, n := range p.Networks {
		if networks[n.NetworkID] {
			fail("duplicate network %s", n.NetworkID)
		}
		networks[n.NetworkID] = true
		if len(n.Accounts) == 0 {
			fail("network %s has no accounts", n.NetworkID)
		}
		for _, a := range n.Accounts {
			if a.NetworkID != n.NetworkID {
				fail("account %s on network %s claims network %s", a.Address, n.NetworkID, a.NetworkID)
			}
		}
		for _, pe := range n.Personas {
			if pe.NetworkID != n.NetworkID {
				fail("persona %s on network %s claims network %s", pe.Address, n.NetworkID, pe.NetworkID)
			}
		}
	}

	addresses := make(map[domain.Address]bool)
	for _, e := range entities(p) {
		if addresses[e.address] {
			fail("duplicate address %s", e.address)
		}
		addresses[e.address] = true

		if e.security.Kind != types.SecurityStateUnsecured {
			fail("%s: %v", e.address, domain.ErrUnsupportedSecurityState)
			continue
		}
		tx := e.security.TransactionSigning
		if tx.DerivationPath.Scheme == types.SchemeCAP26 {
			if tx.DerivationPath.KeyRole != types.KeyRoleTransactionSigning {
				fail("%s: transaction signing key at %s", e.address, tx.DerivationPath)
			}
			if tx.DerivationPath.NetworkID != e.network || tx.DerivationPath.EntityKind != e.kind {
				fail("%s: path %s does not match its %s on %s", e.address, tx.DerivationPath, e.kind, e.network)
			}
		} else if e.kind != types.EntityKindAccount {
			fail("%s: %s path on a persona", e.address, tx.DerivationPath.Scheme)
		}
		if auth := e.security.AuthenticationSigning; auth != nil && auth.DerivationPath.KeyRole != types.KeyRoleAuthenticationSigning {
			fail("%s: authentication signing key at %s", e.address, auth.DerivationPath)
		}

		for _, fi := range e.security.FactorInstances() {
			fs, ok := sources[fi.FactorSourceID]
			if !ok {
				fail("%s references unknown factor source %s", e.address, fi.FactorSourceID)
				continue
			}
			if !fs.Kind().CanDerive() {
				fail("%s references non-deriving factor source %s", e.address, fi.FactorSourceID)
				continue
			}
			counters := fs.NextIndicesFor(e.network)
			next := counters.ForAccount
			if e.kind == types.EntityKindIdentity {
				next = counters.ForIdentity
			}
			if fi.DerivationPath.Index >= next {
				fail("%s uses index %d but %s next %s index on %s is %d",
					e.address, fi.DerivationPath.Index, fs.ID, e.kind, e.network, next)
			}
		}
	}

	for _, n := range p.Networks {
		for _, d := range n.AuthorizedDapps {
			for _, ref := range d.ReferencesToAuthorizedPersonas {
				if !addresses[ref.IdentityAddress] {
					fail("dApp %s references unknown persona %s", d.DappDefinitionAddress, ref.IdentityAddress)
				}
			}
		}
	}

	return errors.Join(errs...)
}
