package profile

import (
	"encoding/hex"
	"fmt"
	"slices"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// connectionPasswordLength is the byte length of a linked connector password.
const connectionPasswordLength = 32

// AddLinkedConnector adds a browser connector link. Links are keyed by their
// connection password; re-adding one only updates its display name.
func AddLinkedConnector(p domain.Profile, link types.P2PLink) (domain.Profile, error) {
	pw, err := hex.DecodeString(link.ConnectionPassword)
	if err != nil || len(pw) != connectionPasswordLength {
		return domain.Profile{}, fmt.Errorf("linked connector: connection password must be %d hex bytes", connectionPasswordLength)
	}
	out := p.Clone()
	i := slices.IndexFunc(out.AppPreferences.P2PLinks, func(l types.P2PLink) bool { return l.ConnectionPassword == link.ConnectionPassword })
	if i >= 0 {
		out.AppPreferences.P2PLinks[i].DisplayName = link.DisplayName
		return out, nil
	}
	out.AppPreferences.P2PLinks = append(out.AppPreferences.P2PLinks, link)
	return out, nil
}

// RemoveLinkedConnector drops the link with the given connection password.
func RemoveLinkedConnector(p domain.Profile, connectionPassword string) domain.Profile {
	out := p.Clone()
	out.AppPreferences.P2PLinks = slices.DeleteFunc(out.AppPreferences.P2PLinks, func(l types.P2PLink) bool {
		return l.ConnectionPassword == connectionPassword
	})
	return out
}

// WithCurrentGateway switches the current gateway, saving it if it is new.
func WithCurrentGateway(p domain.Profile, gw types.Gateway) domain.Profile {
	out := p.Clone()
	out.AppPreferences.Gateways.Current = gw
	if !slices.Contains(out.AppPreferences.Gateways.Saved, gw) {
		out.AppPreferences.Gateways.Saved = append(out.AppPreferences.Gateways.Saved, gw)
	}
	return out
}

// CurrentNetwork returns the network of the current gateway.
func CurrentNetwork(p domain.Profile) domain.NetworkID {
	return p.AppPreferences.Gateways.Current.Network.ID
}

// AddOrUpdateAuthorizedDapp stores dapp on its network, replacing any entry with
// the same definition address. Every referenced persona and shared account must
// exist on that network.
func AddOrUpdateAuthorizedDapp(p domain.Profile, dapp domain.AuthorizedDapp) (domain.Profile, error) {
	ni := networkIndex(p, dapp.NetworkID)
	if ni < 0 {
		return domain.Profile{}, fmt.Errorf("authorize dApp on %s: %w", dapp.NetworkID, domain.ErrNetworkNotFound)
	}
	n := p.Networks[ni]
	for _, ref := range dapp.ReferencesToAuthorizedPersonas {
		if !slices.ContainsFunc(n.Personas, func(pe domain.Persona) bool { return pe.Address == ref.IdentityAddress }) {
			return domain.Profile{}, fmt.Errorf("authorize dApp: persona %s: %w", ref.IdentityAddress, domain.ErrEntityNotFound)
		}
		if ref.SharedAccounts == nil {
			continue
		}
		for _, id := range ref.SharedAccounts.IDs {
			if !slices.ContainsFunc(n.Accounts, func(a domain.Account) bool { return a.Address == id }) {
				return domain.Profile{}, fmt.Errorf("authorize dApp: account %s: %w", id, domain.ErrEntityNotFound)
			}
		}
	}

	out := p.Clone()
	dapps := &out.Networks[ni].AuthorizedDapps
	i := slices.IndexFunc(*dapps, func(d domain.AuthorizedDapp) bool { return d.DappDefinitionAddress == dapp.DappDefinitionAddress })
	if i >= 0 {
		(*dapps)[i] = dapp.Clone()
	} else {
		*dapps = append(*dapps, dapp.Clone())
	}
	return out, nil
}
