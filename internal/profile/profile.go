package profile

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// New returns a profile seeded with one on-device factor source and no networks.
func New(device domain.FactorSource, creatingDevice domain.DeviceInfo, id uuid.UUID) (domain.Profile, error) {
	if device.Kind() != types.FactorSourceKindDevice {
		return domain.Profile{}, fmt.Errorf("new profile: factor source %s is not a device factor source", device.ID)
	}
	p := domain.Profile{
		Header: types.Header{
			SnapshotVersion:  types.SnapshotVersion,
			ID:               id,
			CreatingDevice:   creatingDevice,
			LastUsedOnDevice: creatingDevice,
			LastModified:     creatingDevice.Date,
		},
		AppPreferences: types.DefaultAppPreferences(),
		FactorSources:  []domain.FactorSource{device.Clone()},
		Networks:       []domain.Network{},
	}
	return withContentHint(p), nil
}

// Touch stamps the header with the modification time and the device used.
func Touch(p domain.Profile, device domain.DeviceInfo) domain.Profile {
	p = p.Clone()
	p.Header.LastModified = device.Date
	p.Header.LastUsedOnDevice = device
	return p
}

func withContentHint(p domain.Profile) domain.Profile {
	var hint types.ContentHint
	for _, n := range p.Networks {
		hint.NumberOfAccountsOnAllNetworksInTotal += len(n.Accounts)
		hint.NumberOfPersonasOnAllNetworksInTotal += len(n.Personas)
	}
	hint.NumberOfNetworks = len(p.Networks)
	p.Header.ContentHint = hint
	return p
}

// Network returns the network with id.
func Network(p domain.Profile, id domain.NetworkID) (domain.Network, bool) {
	i := networkIndex(p, id)
	if i < 0 {
		return domain.Network{}, false
	}
	return p.Networks[i], true
}

func networkIndex(p domain.Profile, id domain.NetworkID) int {
	return slices.IndexFunc(p.Networks, func(n domain.Network) bool { return n.NetworkID == id })
}

// FindAccount returns the account with addr on any network.
func FindAccount(p domain.Profile, addr domain.Address) (domain.Account, bool) {
	for _, n := range p.Networks {
		for _, a := range n.Accounts {
			if a.Address == addr {
				return a, true
			}
		}
	}
	return domain.Account{}, false
}

// FindPersona returns the persona with addr on any network.
func FindPersona(p domain.Profile, addr domain.Address) (domain.Persona, bool) {
	for _, n := range p.Networks {
		for _, pe := range n.Personas {
			if pe.Address == addr {
				return pe, true
			}
		}
	}
	return domain.Persona{}, false
}

// ContainsAddress reports whether any account or persona has addr.
func ContainsAddress(p domain.Profile, addr domain.Address) bool {
	if _, ok := FindAccount(p, addr); ok {
		return true
	}
	_, ok := FindPersona(p, addr)
	return ok
}

// Accounts returns the accounts on network, hidden ones excluded unless
// includeHidden is set.
func Accounts(p domain.Profile, network domain.NetworkID, includeHidden bool) []domain.Account {
	n, ok := Network(p, network)
	if !ok {
		return nil
	}
	out := make([]domain.Account, 0, len(n.Accounts))
	for _, a := range n.Accounts {
		if includeHidden || !a.IsHidden() {
			out = append(out, a)
		}
	}
	return out
}

// Personas returns the personas on network, hidden ones excluded unless
// includeHidden is set.
func Personas(p domain.Profile, network domain.NetworkID, includeHidden bool) []domain.Persona {
	n, ok := Network(p, network)
	if !ok {
		return nil
	}
	out := make([]domain.Persona, 0, len(n.Personas))
	for _, pe := range n.Personas {
		if includeHidden || !pe.IsHidden() {
			out = append(out, pe)
		}
	}
	return out
}
