package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// FactorSourceKind tags the factor source variant.
type FactorSourceKind string

const (
	FactorSourceKindDevice            FactorSourceKind = "device"
	FactorSourceKindLedger            FactorSourceKind = "ledgerHQHardwareWallet"
	FactorSourceKindOffDeviceMnemonic FactorSourceKind = "offDeviceMnemonic"
	FactorSourceKindTrustedContact    FactorSourceKind = "trustedContact"
)

// Valid reports whether k is a known kind.
func (k FactorSourceKind) Valid() bool {
	switch k {
	case FactorSourceKindDevice, FactorSourceKindLedger, FactorSourceKindOffDeviceMnemonic, FactorSourceKindTrustedContact:
		return true
	}
	return false
}

// CanDerive reports whether sources of this kind hold key material and track
// next-index counters.
func (k FactorSourceKind) CanDerive() bool {
	return k == FactorSourceKindDevice || k == FactorSourceKindLedger || k == FactorSourceKindOffDeviceMnemonic
}

// IsHardware reports whether derivation has to go through a device transport.
func (k FactorSourceKind) IsHardware() bool { return k == FactorSourceKindLedger }

// FactorSourceID is the content-derived identity of a factor source: its kind plus
// the BLAKE2b-256 hash of its public material.
type FactorSourceID struct {
	Kind FactorSourceKind
	Body [32]byte
}

func (id FactorSourceID) String() string {
	return string(id.Kind) + ":" + hex.EncodeToString(id.Body[:])
}

// ParseFactorSourceID parses the "kind:hex" form produced by String.
func ParseFactorSourceID(s string) (FactorSourceID, error) {
	kind, body, ok := strings.Cut(s, ":")
	if !ok {
		return FactorSourceID{}, fmt.Errorf("factor source id %q: expected kind:hex", s)
	}
	return newFactorSourceID(FactorSourceKind(kind), body)
}

func newFactorSourceID(kind FactorSourceKind, body string) (FactorSourceID, error) {
	if !kind.Valid() {
		return FactorSourceID{}, fmt.Errorf("unknown factor source kind %q", kind)
	}
	b, err := hex.DecodeString(body)
	if err != nil || len(b) != 32 {
		return FactorSourceID{}, fmt.Errorf("factor source id body must be 32 hex bytes")
	}
	id := FactorSourceID{Kind: kind}
	copy(id.Body[:], b)
	return id, nil
}

type factorSourceIDJSON struct {
	Kind FactorSourceKind `json:"kind"`
	Body string           `json:"body"`
}

func (id FactorSourceID) MarshalJSON() ([]byte, error) {
	return json.Marshal(factorSourceIDJSON{Kind: id.Kind, Body: hex.EncodeToString(id.Body[:])})
}

func (id *FactorSourceID) UnmarshalJSON(b []byte) error {
	var raw factorSourceIDJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := newFactorSourceID(raw.Kind, raw.Body)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// FactorSourceFlag marks a factor source.
type FactorSourceFlag string

const (
	FactorSourceFlagMain          FactorSourceFlag = "main"
	FactorSourceFlagDeletedByUser FactorSourceFlag = "deletedByUser"
)

// CryptoParameters lists the curves and path schemes a factor source can derive on.
type CryptoParameters struct {
	SupportedCurves                []Curve            `json:"supportedCurves"`
	SupportedDerivationPathSchemes []DerivationScheme `json:"supportedDerivationPathSchemes"`
}

// CryptoParametersBabylon supports CAP-26 on curve25519 only.
func CryptoParametersBabylon() CryptoParameters {
	return CryptoParameters{
		SupportedCurves:                []Curve{Curve25519},
		SupportedDerivationPathSchemes: []DerivationScheme{SchemeCAP26},
	}
}

// CryptoParametersBabylonOlympia additionally supports BIP44-Olympia on secp256k1.
func CryptoParametersBabylonOlympia() CryptoParameters {
	return CryptoParameters{
		SupportedCurves:                []Curve{Curve25519, Secp256k1},
		SupportedDerivationPathSchemes: []DerivationScheme{SchemeCAP26, SchemeBIP44Olympia},
	}
}

// Supports reports whether scheme, and the curve it implies, are both supported.
func (c CryptoParameters) Supports(scheme DerivationScheme) bool {
	return slices.Contains(c.SupportedDerivationPathSchemes, scheme) &&
		slices.Contains(c.SupportedCurves, scheme.Curve())
}

// FactorSourceCommon holds the fields every factor source variant carries.
type FactorSourceCommon struct {
	CryptoParameters CryptoParameters   `json:"cryptoParameters"`
	AddedOn          time.Time          `json:"addedOn"`
	LastUsedOn       time.Time          `json:"lastUsedOn"`
	Flags            []FactorSourceFlag `json:"flags"`
}

// FactorSourceHint is human-facing metadata. Which fields are meaningful depends on
// the kind: Name and Model for devices and ledgers, Name and MnemonicWordCount for
// mnemonics, Name, EmailAddress and AccountAddress for trusted contacts.
type FactorSourceHint struct {
	Name              string
	Model             string
	MnemonicWordCount int
	EmailAddress      string
	AccountAddress    Address
}

// NextDerivationIndices is the per-network pair of next entity indices.
type NextDerivationIndices struct {
	NetworkID   NetworkID `json:"networkID"`
	ForAccount  uint32    `json:"forAccount"`
	ForIdentity uint32    `json:"forIdentity"`
}

func (n NextDerivationIndices) get(kind EntityKind) uint32 {
	if kind == EntityKindIdentity {
		return n.ForIdentity
	}
	return n.ForAccount
}

// FactorSource is a root of key material (or a trusted external party).
type FactorSource struct {
	ID          FactorSourceID
	Common      FactorSourceCommon
	Hint        FactorSourceHint
	NextIndices []NextDerivationIndices
}

// Kind returns the variant tag.
func (f FactorSource) Kind() FactorSourceKind { return f.ID.Kind }

// HasFlag reports whether flag is set.
func (f FactorSource) HasFlag(flag FactorSourceFlag) bool {
	return slices.Contains(f.Common.Flags, flag)
}

// Clone returns a deep copy that shares no slices with f.
func (f FactorSource) Clone() FactorSource {
	out := f
	out.Common.CryptoParameters.SupportedCurves = slices.Clone(f.Common.CryptoParameters.SupportedCurves)
	out.Common.CryptoParameters.SupportedDerivationPathSchemes = slices.Clone(f.Common.CryptoParameters.SupportedDerivationPathSchemes)
	out.Common.Flags = slices.Clone(f.Common.Flags)
	out.NextIndices = slices.Clone(f.NextIndices)
	return out
}

// NextIndex returns the index the next entity of kind on network will use.
// Networks never used before start at zero. Once the last hardened index has
// been issued the counter rests at HardenedOffset and ErrIndexExhausted is
// returned.
func (f FactorSource) NextIndex(network NetworkID, kind EntityKind) (uint32, error) {
	if !f.Kind().CanDerive() {
		return 0, fmt.Errorf("%s: %w", f.ID, ErrFactorSourceNotDerivable)
	}
	for _, n := range f.NextIndices {
		if n.NetworkID != network {
			continue
		}
		if next := n.get(kind); next < HardenedOffset {
			return next, nil
		}
		return 0, fmt.Errorf("%s on %s: %w", f.ID, network, ErrIndexExhausted)
	}
	return 0, nil
}

// NextIndicesFor returns the counters for network, zero when the network is unused.
func (f FactorSource) NextIndicesFor(network NetworkID) NextDerivationIndices {
	for _, n := range f.NextIndices {
		if n.NetworkID == network {
			return n
		}
	}
	return NextDerivationIndices{NetworkID: network}
}

// WithIncrementedIndex returns a copy of f whose counter for (network, kind) is one
// higher. f itself is not modified.
func (f FactorSource) WithIncrementedIndex(network NetworkID, kind EntityKind) (FactorSource, error) {
	current, err := f.NextIndex(network, kind)
	if err != nil {
		return FactorSource{}, err
	}
	out := f.Clone()
	i := slices.IndexFunc(out.NextIndices, func(n NextDerivationIndices) bool { return n.NetworkID == network })
	if i < 0 {
		out.NextIndices = append(out.NextIndices, NextDerivationIndices{NetworkID: network})
		i = len(out.NextIndices) - 1
	}
	if kind == EntityKindIdentity {
		out.NextIndices[i].ForIdentity = current + 1
	} else {
		out.NextIndices[i].ForAccount = current + 1
	}
	return out, nil
}

// WithLastUsedOn returns a copy of f with its last-used timestamp set to t.
func (f FactorSource) WithLastUsedOn(t time.Time) FactorSource {
	out := f.Clone()
	out.Common.LastUsedOn = t
	return out
}

// NewDeviceFactorSource returns an on-device mnemonic factor source.
func NewDeviceFactorSource(id FactorSourceID, params CryptoParameters, name, model string, wordCount int, now time.Time, main bool) FactorSource {
	flags := []FactorSourceFlag{}
	if main {
		flags = append(flags, FactorSourceFlagMain)
	}
	return FactorSource{
		ID:          id,
		Common:      FactorSourceCommon{CryptoParameters: params, AddedOn: now, LastUsedOn: now, Flags: flags},
		Hint:        FactorSourceHint{Name: name, Model: model, MnemonicWordCount: wordCount},
		NextIndices: []NextDerivationIndices{},
	}
}

// NewLedgerFactorSource returns a hardware wallet factor source.
func NewLedgerFactorSource(id FactorSourceID, name, model string, now time.Time) FactorSource {
	return FactorSource{
		ID:          id,
		Common:      FactorSourceCommon{CryptoParameters: CryptoParametersBabylonOlympia(), AddedOn: now, LastUsedOn: now, Flags: []FactorSourceFlag{}},
		Hint:        FactorSourceHint{Name: name, Model: model},
		NextIndices: []NextDerivationIndices{},
	}
}

// NewOffDeviceMnemonicFactorSource returns a factor source for a mnemonic the user
// keeps off the device and enters on demand.
func NewOffDeviceMnemonicFactorSource(id FactorSourceID, label string, wordCount int, now time.Time) FactorSource {
	return FactorSource{
		ID:          id,
		Common:      FactorSourceCommon{CryptoParameters: CryptoParametersBabylon(), AddedOn: now, LastUsedOn: now, Flags: []FactorSourceFlag{}},
		Hint:        FactorSourceHint{Name: label, MnemonicWordCount: wordCount},
		NextIndices: []NextDerivationIndices{},
	}
}

// NewTrustedContactFactorSource returns a factor source naming an external party.
// It cannot derive keys.
func NewTrustedContactFactorSource(id FactorSourceID, name, email string, account Address, now time.Time) FactorSource {
	return FactorSource{
		ID:     id,
		Common: FactorSourceCommon{CryptoParameters: CryptoParametersBabylon(), AddedOn: now, LastUsedOn: now, Flags: []FactorSourceFlag{}},
		Hint:   FactorSourceHint{Name: name, EmailAddress: email, AccountAddress: account},
	}
}

type factorSourceHintJSON struct {
	Name              string `json:"name"`
	Model             string `json:"model,omitempty"`
	MnemonicWordCount int    `json:"mnemonicWordCount,omitempty"`
}

type trustedContactJSON struct {
	Name           string  `json:"name"`
	EmailAddress   string  `json:"emailAddress"`
	AccountAddress Address `json:"accountAddress"`
}

type factorSourcePayload struct {
	ID          FactorSourceID           `json:"id"`
	Common      FactorSourceCommon       `json:"common"`
	Hint        *factorSourceHintJSON    `json:"hint,omitempty"`
	Contact     *trustedContactJSON      `json:"contact,omitempty"`
	NextIndices *[]NextDerivationIndices `json:"nextDerivationIndicesPerNetwork,omitempty"`
}

func (f FactorSource) MarshalJSON() ([]byte, error) {
	p := factorSourcePayload{ID: f.ID, Common: f.Common}
	if f.Kind() == FactorSourceKindTrustedContact {
		p.Contact = &trustedContactJSON{Name: f.Hint.Name, EmailAddress: f.Hint.EmailAddress, AccountAddress: f.Hint.AccountAddress}
	} else {
		p.Hint = &factorSourceHintJSON{Name: f.Hint.Name, Model: f.Hint.Model, MnemonicWordCount: f.Hint.MnemonicWordCount}
		indices := f.NextIndices
		if indices == nil {
			indices = []NextDerivationIndices{}
		}
		p.NextIndices = &indices
	}
	return marshalUnion(string(f.Kind()), string(f.Kind()), p)
}

func (f *FactorSource) UnmarshalJSON(b []byte) error {
	discriminator, raw, err := unmarshalUnion(b, sameKey)
	if err != nil {
		return fmt.Errorf("factor source: %w", err)
	}
	var p factorSourcePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("factor source: %w", err)
	}
	if string(p.ID.Kind) != discriminator {
		return fmt.Errorf("factor source: id kind %q does not match discriminator %q", p.ID.Kind, discriminator)
	}
	out := FactorSource{ID: p.ID, Common: p.Common}
	switch {
	case p.Contact != nil:
		out.Hint = FactorSourceHint{Name: p.Contact.Name, EmailAddress: p.Contact.EmailAddress, AccountAddress: p.Contact.AccountAddress}
	case p.Hint != nil:
		out.Hint = FactorSourceHint{Name: p.Hint.Name, Model: p.Hint.Model, MnemonicWordCount: p.Hint.MnemonicWordCount}
	}
	if p.NextIndices != nil {
		out.NextIndices = *p.NextIndices
	}
	*f = out
	return nil
}
