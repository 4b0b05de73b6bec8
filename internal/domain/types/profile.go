package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// SnapshotVersion is the profile snapshot format written by this package.
const SnapshotVersion = 100

// MinSupportedSnapshotVersion is the oldest snapshot format still accepted.
const MinSupportedSnapshotVersion = 100

// DeviceInfo describes the host device that created or last used a profile.
type DeviceInfo struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// ContentHint summarises a profile without decoding its networks.
type ContentHint struct {
	NumberOfAccountsOnAllNetworksInTotal int `json:"numberOfAccountsOnAllNetworksInTotal"`
	NumberOfPersonasOnAllNetworksInTotal int `json:"numberOfPersonasOnAllNetworksInTotal"`
	NumberOfNetworks                     int `json:"numberOfNetworks"`
}

// Header carries profile metadata.
type Header struct {
	SnapshotVersion  int         `json:"snapshotVersion"`
	ID               uuid.UUID   `json:"id"`
	CreatingDevice   DeviceInfo  `json:"creatingDevice"`
	LastUsedOnDevice DeviceInfo  `json:"lastUsedOnDevice"`
	LastModified     time.Time   `json:"lastModified"`
	ContentHint      ContentHint `json:"contentHint"`
}

// DisplayPreferences are UI preferences.
type DisplayPreferences struct {
	IsCurrencyAmountVisible bool   `json:"isCurrencyAmountVisible"`
	FiatCurrencyPriceTarget string `json:"fiatCurrencyPriceTarget"`
}

// SecurityPreferences are security related toggles.
type SecurityPreferences struct {
	IsCloudProfileSyncEnabled bool `json:"isCloudProfileSyncEnabled"`
	IsDeveloperModeEnabled    bool `json:"isDeveloperModeEnabled"`
}

// NetworkDescriptor names a network a gateway serves.
type NetworkDescriptor struct {
	ID          NetworkID `json:"id"`
	LogicalName string    `json:"logicalName"`
}

// Gateway is a network API endpoint.
type Gateway struct {
	URL     string            `json:"url"`
	Network NetworkDescriptor `json:"network"`
}

// Gateways holds the current gateway and the ones the user saved.
type Gateways struct {
	Current Gateway   `json:"current"`
	Saved   []Gateway `json:"saved"`
}

// DefaultGateways returns mainnet as current with stokenet saved.
func DefaultGateways() Gateways {
	mainnet := Gateway{URL: "https://mainnet.radixdlt.com/", Network: NetworkDescriptor{ID: Mainnet, LogicalName: Mainnet.LogicalName()}}
	stokenet := Gateway{URL: "https://babylon-stokenet-gateway.radixdlt.com/", Network: NetworkDescriptor{ID: Stokenet, LogicalName: Stokenet.LogicalName()}}
	return Gateways{Current: mainnet, Saved: []Gateway{mainnet, stokenet}}
}

// P2PLink is a linked browser connector.
type P2PLink struct {
	ConnectionPassword string `json:"connectionPassword"`
	DisplayName        string `json:"displayName"`
}

// AppPreferences holds app settings stored in the profile.
type AppPreferences struct {
	Display  DisplayPreferences  `json:"display"`
	Security SecurityPreferences `json:"security"`
	Gateways Gateways            `json:"gateways"`
	P2PLinks []P2PLink           `json:"p2pLinks"`
}

// DefaultAppPreferences returns the preferences of a fresh profile.
func DefaultAppPreferences() AppPreferences {
	return AppPreferences{
		Display:  DisplayPreferences{IsCurrencyAmountVisible: true, FiatCurrencyPriceTarget: "usd"},
		Security: SecurityPreferences{IsCloudProfileSyncEnabled: true},
		Gateways: DefaultGateways(),
		P2PLinks: []P2PLink{},
	}
}

// Profile is the root aggregate of a wallet. Values are treated as immutable:
// every change produces a new Profile.
type Profile struct {
	Header         Header         `json:"header"`
	AppPreferences AppPreferences `json:"appPreferences"`
	FactorSources  []FactorSource `json:"factorSources"`
	Networks       []Network      `json:"networks"`
}

// Clone returns a deep copy that shares no mutable state with p.
func (p Profile) Clone() Profile {
	out := p
	out.AppPreferences.Gateways.Saved = slices.Clone(p.AppPreferences.Gateways.Saved)
	out.AppPreferences.P2PLinks = slices.Clone(p.AppPreferences.P2PLinks)
	out.FactorSources = make([]FactorSource, len(p.FactorSources))
	for i, f := range p.FactorSources {
		out.FactorSources[i] = f.Clone()
	}
	out.Networks = make([]Network, len(p.Networks))
	for i, n := range p.Networks {
		out.Networks[i] = n.Clone()
	}
	return out
}

// Equal reports structural equality, field by field and in order. Profiles
// are compared in their serialized form, so a profile that cannot be
// serialized (an unsupported security state, say) yields an error.
func (p Profile) Equal(o Profile) (bool, error) {
	a, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("compare profiles: %w", err)
	}
	b, err := json.Marshal(o)
	if err != nil {
		return false, fmt.Errorf("compare profiles: %w", err)
	}
	return bytes.Equal(a, b), nil
}

// ProfileSnapshot is the canonical serialized form of a Profile.
type ProfileSnapshot []byte
