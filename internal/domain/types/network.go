package types

import (
	"slices"
	"time"
)

// SharedQuantifier qualifies how many accounts a dApp asked for.
type SharedQuantifier string

const (
	QuantifierExactly SharedQuantifier = "exactly"
	QuantifierAtLeast SharedQuantifier = "atLeast"
)

// SharedAccountsRequest is the account request a dApp made.
type SharedAccountsRequest struct {
	Quantifier SharedQuantifier `json:"quantifier"`
	Quantity   int              `json:"quantity"`
}

// SharedAccounts lists the accounts shared with a dApp and what was asked for.
type SharedAccounts struct {
	Request SharedAccountsRequest `json:"request"`
	IDs     []Address             `json:"ids"`
}

// AuthorizedPersonaReference records a persona that logged in to a dApp.
type AuthorizedPersonaReference struct {
	IdentityAddress Address         `json:"identityAddress"`
	LastLogin       time.Time       `json:"lastLogin"`
	SharedAccounts  *SharedAccounts `json:"sharedAccounts,omitempty"`
}

// AuthorizedDapp is a dApp the user logged in to with one or more personas.
type AuthorizedDapp struct {
	NetworkID                      NetworkID                    `json:"networkID"`
	DappDefinitionAddress          Address                      `json:"dAppDefinitionAddress"`
	DisplayName                    string                       `json:"displayName,omitempty"`
	ReferencesToAuthorizedPersonas []AuthorizedPersonaReference `json:"referencesToAuthorizedPersonas"`
}

// Clone returns a deep copy.
func (d AuthorizedDapp) Clone() AuthorizedDapp {
	refs := make([]AuthorizedPersonaReference, len(d.ReferencesToAuthorizedPersonas))
	for i, r := range d.ReferencesToAuthorizedPersonas {
		if r.SharedAccounts != nil {
			sa := *r.SharedAccounts
			sa.IDs = slices.Clone(sa.IDs)
			r.SharedAccounts = &sa
		}
		refs[i] = r
	}
	d.ReferencesToAuthorizedPersonas = refs
	return d
}

// Network holds every entity the profile controls on one network.
type Network struct {
	NetworkID       NetworkID        `json:"networkID"`
	Accounts        []Account        `json:"accounts"`
	Personas        []Persona        `json:"personas"`
	AuthorizedDapps []AuthorizedDapp `json:"authorizedDapps"`
}

// Clone returns a deep copy.
func (n Network) Clone() Network {
	out := Network{
		NetworkID:       n.NetworkID,
		Accounts:        make([]Account, len(n.Accounts)),
		Personas:        make([]Persona, len(n.Personas)),
		AuthorizedDapps: make([]AuthorizedDapp, len(n.AuthorizedDapps)),
	}
	for i, a := range n.Accounts {
		out.Accounts[i] = a.Clone()
	}
	for i, p := range n.Personas {
		out.Personas[i] = p.Clone()
	}
	for i, d := range n.AuthorizedDapps {
		out.AuthorizedDapps[i] = d.Clone()
	}
	return out
}
