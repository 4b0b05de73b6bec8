package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HardenedOffset is added to an index to mark a hardened child.
const HardenedOffset uint32 = 1 << 31

const (
	purposeBIP44 uint32 = 44
	coinTypeXRD  uint32 = 1022
	getIDIndex   uint32 = 365
)

// GetIDPathComponents is m/44H/1022H/365H, the curve25519 path whose public key
// identifies a mnemonic or hardware factor source.
var GetIDPathComponents = []uint32{
	purposeBIP44 + HardenedOffset,
	coinTypeXRD + HardenedOffset,
	getIDIndex + HardenedOffset,
}

// DerivationScheme names the path layout.
type DerivationScheme string

const (
	SchemeCAP26        DerivationScheme = "cap26"
	SchemeBIP44Olympia DerivationScheme = "bip44Olympia"
)

// Curve returns the only curve keys on this scheme are derived on.
func (s DerivationScheme) Curve() Curve {
	if s == SchemeBIP44Olympia {
		return Secp256k1
	}
	return Curve25519
}

// EntityKind is the CAP-26 entity kind path component.
type EntityKind uint32

const (
	EntityKindAccount  EntityKind = 525
	EntityKindIdentity EntityKind = 618
)

func (k EntityKind) String() string {
	switch k {
	case EntityKindAccount:
		return "account"
	case EntityKindIdentity:
		return "identity"
	default:
		return "entityKind(" + strconv.FormatUint(uint64(k), 10) + ")"
	}
}

// KeyRole is the CAP-26 key kind path component.
type KeyRole uint32

const (
	KeyRoleTransactionSigning    KeyRole = 1460
	KeyRoleAuthenticationSigning KeyRole = 1678
)

func (r KeyRole) String() string {
	switch r {
	case KeyRoleTransactionSigning:
		return "transactionSigning"
	case KeyRoleAuthenticationSigning:
		return "authenticationSigning"
	default:
		return "keyRole(" + strconv.FormatUint(uint64(r), 10) + ")"
	}
}

// DerivationPath is a structured hierarchical derivation path.
//
// CAP-26 paths have the form m/44H/1022H/{network}H/{entityKind}H/{keyRole}H/{index}H.
// BIP44-Olympia paths have the form m/44H/1022H/0H/0/{index}H and carry no network,
// entity kind or key role; those fields are zero.
type DerivationPath struct {
	Scheme     DerivationScheme
	NetworkID  NetworkID
	EntityKind EntityKind
	KeyRole    KeyRole
	Index      uint32
}

// NewCAP26Path builds a CAP-26 path.
func NewCAP26Path(network NetworkID, kind EntityKind, role KeyRole, index uint32) (DerivationPath, error) {
	p := DerivationPath{
		Scheme:     SchemeCAP26,
		NetworkID:  network,
		EntityKind: kind,
		KeyRole:    role,
		Index:      index,
	}
	if err := p.validate(); err != nil {
		return DerivationPath{}, &ParseError{Input: p.describe(), Reason: err.Error()}
	}
	return p, nil
}

// NewOlympiaPath builds a BIP44-Olympia account path.
func NewOlympiaPath(index uint32) (DerivationPath, error) {
	p := DerivationPath{Scheme: SchemeBIP44Olympia, Index: index}
	if err := p.validate(); err != nil {
		return DerivationPath{}, &ParseError{Input: p.describe(), Reason: err.Error()}
	}
	return p, nil
}

func (p DerivationPath) validate() error {
	if p.Index >= HardenedOffset {
		return fmt.Errorf("index %d out of range", p.Index)
	}
	switch p.Scheme {
	case SchemeCAP26:
		if p.EntityKind != EntityKindAccount && p.EntityKind != EntityKindIdentity {
			return fmt.Errorf("unknown entity kind %d", uint32(p.EntityKind))
		}
		if p.KeyRole != KeyRoleTransactionSigning && p.KeyRole != KeyRoleAuthenticationSigning {
			return fmt.Errorf("unknown key role %d", uint32(p.KeyRole))
		}
	case SchemeBIP44Olympia:
		if p.NetworkID != 0 || p.EntityKind != 0 || p.KeyRole != 0 {
			return fmt.Errorf("olympia path cannot carry network, entity kind or key role")
		}
	default:
		return fmt.Errorf("unknown scheme %q", p.Scheme)
	}
	return nil
}

// describe renders the fields without the overflow-prone component arithmetic.
func (p DerivationPath) describe() string {
	return fmt.Sprintf("%s(network=%d, kind=%d, role=%d, index=%d)",
		p.Scheme, uint8(p.NetworkID), uint32(p.EntityKind), uint32(p.KeyRole), p.Index)
}

// Components returns the BIP-32 child numbers, hardened ones offset by HardenedOffset.
func (p DerivationPath) Components() []uint32 {
	if p.Scheme == SchemeBIP44Olympia {
		return []uint32{
			purposeBIP44 + HardenedOffset,
			coinTypeXRD + HardenedOffset,
			HardenedOffset,
			0,
			p.Index + HardenedOffset,
		}
	}
	return []uint32{
		purposeBIP44 + HardenedOffset,
		coinTypeXRD + HardenedOffset,
		uint32(p.NetworkID) + HardenedOffset,
		uint32(p.EntityKind) + HardenedOffset,
		uint32(p.KeyRole) + HardenedOffset,
		p.Index + HardenedOffset,
	}
}

// Curve returns the curve keys on this path are derived on.
func (p DerivationPath) Curve() Curve { return p.Scheme.Curve() }

// String returns the canonical form, using "H" for hardened components.
func (p DerivationPath) String() string {
	return FormatComponents(p.Components())
}

// FormatComponents renders raw child numbers as "m/44H/1022H/...".
func FormatComponents(components []uint32) string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, c := range components {
		sb.WriteByte('/')
		if c >= HardenedOffset {
			sb.WriteString(strconv.FormatUint(uint64(c-HardenedOffset), 10))
			sb.WriteByte('H')
		} else {
			sb.WriteString(strconv.FormatUint(uint64(c), 10))
		}
	}
	return sb.String()
}

// ParseDerivationPath parses a CAP-26 or BIP44-Olympia path. Hardened components may
// be marked with "H" or "'".
func ParseDerivationPath(s string) (DerivationPath, error) {
	fail := func(reason string) (DerivationPath, error) {
		return DerivationPath{}, &ParseError{Input: s, Reason: reason}
	}

	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] != "m" {
		return fail(`must start with "m/"`)
	}
	comps := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		c, err := parseComponent(part)
		if err != nil {
			return fail(err.Error())
		}
		comps = append(comps, c)
	}
	if comps[0] != purposeBIP44+HardenedOffset || len(comps) < 2 || comps[1] != coinTypeXRD+HardenedOffset {
		return fail("expected 44H/1022H prefix")
	}

	switch len(comps) {
	case 6:
		for i, c := range comps {
			if c < HardenedOffset {
				return fail(fmt.Sprintf("component %d must be hardened", i+1))
			}
		}
		network := comps[2] - HardenedOffset
		if network > 0xff {
			return fail("network id out of range")
		}
		p := DerivationPath{
			Scheme:     SchemeCAP26,
			NetworkID:  NetworkID(network),
			EntityKind: EntityKind(comps[3] - HardenedOffset),
			KeyRole:    KeyRole(comps[4] - HardenedOffset),
			Index:      comps[5] - HardenedOffset,
		}
		if err := p.validate(); err != nil {
			return fail(err.Error())
		}
		return p, nil
	case 5:
		if comps[2] != HardenedOffset || comps[3] != 0 || comps[4] < HardenedOffset {
			return fail("expected olympia layout 44H/1022H/0H/0/{index}H")
		}
		return DerivationPath{Scheme: SchemeBIP44Olympia, Index: comps[4] - HardenedOffset}, nil
	default:
		return fail(fmt.Sprintf("unexpected depth %d", len(comps)))
	}
}

func parseComponent(part string) (uint32, error) {
	hardened := false
	if strings.HasSuffix(part, "H") || strings.HasSuffix(part, "'") {
		hardened = true
		part = part[:len(part)-1]
	}
	if part == "" {
		return 0, fmt.Errorf("empty component")
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid component %q", part)
		}
	}
	v, err := strconv.ParseUint(part, 10, 32)
	if err != nil || uint32(v) >= HardenedOffset {
		return 0, fmt.Errorf("component %q out of range", part)
	}
	if hardened {
		return uint32(v) + HardenedOffset, nil
	}
	return uint32(v), nil
}

type derivationPathJSON struct {
	Scheme DerivationScheme `json:"scheme"`
	Path   string           `json:"path"`
}

func (p DerivationPath) MarshalJSON() ([]byte, error) {
	return json.Marshal(derivationPathJSON{Scheme: p.Scheme, Path: p.String()})
}

func (p *DerivationPath) UnmarshalJSON(b []byte) error {
	var raw derivationPathJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseDerivationPath(raw.Path)
	if err != nil {
		return err
	}
	if parsed.Scheme != raw.Scheme {
		return &ParseError{Input: raw.Path, Reason: fmt.Sprintf("path does not match scheme %q", raw.Scheme)}
	}
	*p = parsed
	return nil
}
