package types

import (
	"slices"

	"github.com/google/uuid"
)

// EntityFlag marks an account or persona.
type EntityFlag string

// EntityFlagDeletedByUser hides an entity from the user without removing it, so
// its derivation index is never reissued.
const EntityFlagDeletedByUser EntityFlag = "deletedByUser"

// AppearanceGradientCount is the number of account gradients the UI offers.
const AppearanceGradientCount = 12

// DepositRule controls which third-party deposits an account accepts.
type DepositRule string

const (
	DepositRuleAcceptAll   DepositRule = "acceptAll"
	DepositRuleAcceptKnown DepositRule = "acceptKnown"
	DepositRuleDenyAll     DepositRule = "denyAll"
)

// AssetException overrides the deposit rule for one resource.
type AssetException struct {
	Address       string `json:"address"`
	ExceptionRule string `json:"exceptionRule"` // "allow" or "deny"
}

// DepositorAddress is a resource or non-fungible global id allowed to deposit.
type DepositorAddress struct {
	Discriminator string `json:"discriminator"` // "resourceAddress" or "nonFungibleGlobalID"
	Value         string `json:"value"`
}

// ThirdPartyDeposits is the on-ledger deposit configuration of an account.
type ThirdPartyDeposits struct {
	DepositRule         DepositRule        `json:"depositRule"`
	AssetsExceptionList []AssetException   `json:"assetsExceptionList"`
	DepositorsAllowList []DepositorAddress `json:"depositorsAllowList"`
}

// DefaultThirdPartyDeposits accepts everything with empty lists.
func DefaultThirdPartyDeposits() ThirdPartyDeposits {
	return ThirdPartyDeposits{
		DepositRule:         DepositRuleAcceptAll,
		AssetsExceptionList: []AssetException{},
		DepositorsAllowList: []DepositorAddress{},
	}
}

func (t ThirdPartyDeposits) clone() ThirdPartyDeposits {
	t.AssetsExceptionList = slices.Clone(t.AssetsExceptionList)
	t.DepositorsAllowList = slices.Clone(t.DepositorsAllowList)
	return t
}

// OnLedgerSettings mirrors account settings that live on ledger.
type OnLedgerSettings struct {
	ThirdPartyDeposits ThirdPartyDeposits `json:"thirdPartyDeposits"`
}

// Account is an on-ledger account controlled by the profile.
type Account struct {
	NetworkID        NetworkID        `json:"networkID"`
	Address          Address          `json:"address"`
	DisplayName      string           `json:"displayName"`
	SecurityState    SecurityState    `json:"securityState"`
	AppearanceID     uint8            `json:"appearanceID"`
	Flags            []EntityFlag     `json:"flags"`
	OnLedgerSettings OnLedgerSettings `json:"onLedgerSettings"`
}

// Index returns the derivation index of the transaction signing key.
func (a Account) Index() uint32 { return a.SecurityState.TransactionSigning.DerivationPath.Index }

// IsHidden reports whether the user deleted the account.
func (a Account) IsHidden() bool { return slices.Contains(a.Flags, EntityFlagDeletedByUser) }

// Clone returns a deep copy.
func (a Account) Clone() Account {
	a.Flags = slices.Clone(a.Flags)
	a.OnLedgerSettings.ThirdPartyDeposits = a.OnLedgerSettings.ThirdPartyDeposits.clone()
	return a
}

// PersonaDataName is a person's name in western or eastern order.
type PersonaDataName struct {
	Variant    string `json:"variant"` // "western" or "eastern"
	FamilyName string `json:"familyName"`
	GivenNames string `json:"givenNames"`
	Nickname   string `json:"nickname"`
}

// IdentifiedName is a name entry with a stable id.
type IdentifiedName struct {
	ID    uuid.UUID       `json:"id"`
	Value PersonaDataName `json:"value"`
}

// IdentifiedEntry is a string entry (email, phone number) with a stable id.
type IdentifiedEntry struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

// PersonaData is the personal data a persona may share with dApps.
type PersonaData struct {
	Name           *IdentifiedName   `json:"name,omitempty"`
	EmailAddresses []IdentifiedEntry `json:"emailAddresses"`
	PhoneNumbers   []IdentifiedEntry `json:"phoneNumbers"`
}

// EmptyPersonaData returns persona data with no entries.
func EmptyPersonaData() PersonaData {
	return PersonaData{EmailAddresses: []IdentifiedEntry{}, PhoneNumbers: []IdentifiedEntry{}}
}

func (d PersonaData) clone() PersonaData {
	if d.Name != nil {
		n := *d.Name
		d.Name = &n
	}
	d.EmailAddresses = slices.Clone(d.EmailAddresses)
	d.PhoneNumbers = slices.Clone(d.PhoneNumbers)
	return d
}

// Persona is an on-ledger identity used to log in to dApps.
type Persona struct {
	NetworkID     NetworkID     `json:"networkID"`
	Address       Address       `json:"address"`
	DisplayName   string        `json:"displayName"`
	SecurityState SecurityState `json:"securityState"`
	Flags         []EntityFlag  `json:"flags"`
	PersonaData   PersonaData   `json:"personaData"`
}

// Index returns the derivation index of the transaction signing key.
func (p Persona) Index() uint32 { return p.SecurityState.TransactionSigning.DerivationPath.Index }

// IsHidden reports whether the user deleted the persona.
func (p Persona) IsHidden() bool { return slices.Contains(p.Flags, EntityFlagDeletedByUser) }

// Clone returns a deep copy.
func (p Persona) Clone() Persona {
	p.Flags = slices.Clone(p.Flags)
	p.PersonaData = p.PersonaData.clone()
	return p
}
