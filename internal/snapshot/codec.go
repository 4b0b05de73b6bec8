package snapshot

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
	"walletcore/internal/profile"
)

// ErrUnknownFormat is returned by Inspect for data that is neither a plaintext
// nor an encrypted snapshot.
var ErrUnknownFormat = errors.New("unrecognised snapshot format")

// Kind tells plaintext and encrypted exports apart.
type Kind int

const (
	KindPlaintext Kind = iota + 1
	KindEncrypted
)

func (k Kind) String() string {
	switch k {
	case KindPlaintext:
		return "plaintext"
	case KindEncrypted:
		return "encrypted"
	default:
		return "unknown"
	}
}

// Marshal encodes p as a plaintext snapshot.
func Marshal(p domain.Profile) (domain.ProfileSnapshot, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a plaintext snapshot and validates the resulting profile.
func Unmarshal(s domain.ProfileSnapshot) (domain.Profile, error) {
	var peek struct {
		Header struct {
			SnapshotVersion int `json:"snapshotVersion"`
		} `json:"header"`
	}
	if err := json.Unmarshal(s, &peek); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	if v := peek.Header.SnapshotVersion; v < types.MinSupportedSnapshotVersion || v > types.SnapshotVersion {
		return domain.Profile{}, fmt.Errorf("profile snapshot version %d: %w", v, domain.ErrUnsupportedSnapshotVersion)
	}

	var p domain.Profile
	if err := json.Unmarshal(s, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := profile.Validate(p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// EncryptSnapshot seals s under password with the current scheme.
func EncryptSnapshot(s domain.ProfileSnapshot, password string) (domain.EncryptedSnapshot, error) {
	sc, err := schemeFor(CurrentVersion)
	if err != nil {
		return domain.EncryptedSnapshot{}, err
	}
	key, err := sc.deriveKey(password)
	if err != nil {
		return domain.EncryptedSnapshot{}, fmt.Errorf("derive snapshot key: %w", err)
	}
	defer wipe(key)

	sealed, err := sc.seal(key, s)
	if err != nil {
		return domain.EncryptedSnapshot{}, fmt.Errorf("seal snapshot: %w", err)
	}
	return domain.EncryptedSnapshot{
		Version:             CurrentVersion,
		KeyDerivationScheme: sc.kdf,
		EncryptionScheme:    sc.encryption,
		EncryptedSnapshot:   hex.EncodeToString(sealed),
	}, nil
}

// DecryptSnapshot opens e with password. A wrong password and a damaged
// envelope both yield domain.ErrDecryption.
func DecryptSnapshot(e domain.EncryptedSnapshot, password string) (domain.ProfileSnapshot, error) {
	sc, err := schemeFor(e.Version)
	if err != nil {
		return nil, err
	}
	if e.KeyDerivationScheme.Version != sc.kdf.Version || e.EncryptionScheme.Version != sc.encryption.Version {
		return nil, fmt.Errorf("encrypted snapshot schemes kdf=%d encryption=%d: %w",
			e.KeyDerivationScheme.Version, e.EncryptionScheme.Version, domain.ErrUnsupportedSnapshotVersion)
	}
	sealed, err := hex.DecodeString(e.EncryptedSnapshot)
	if err != nil {
		return nil, domain.ErrDecryption
	}
	key, err := sc.deriveKey(password)
	if err != nil {
		return nil, fmt.Errorf("derive snapshot key: %w", err)
	}
	defer wipe(key)

	return sc.open(key, sealed)
}

// Encrypt serializes p and seals it under password.
func Encrypt(p domain.Profile, password string) (domain.EncryptedSnapshot, error) {
	s, err := Marshal(p)
	if err != nil {
		return domain.EncryptedSnapshot{}, err
	}
	defer wipe(s)
	return EncryptSnapshot(s, password)
}

// Decrypt opens e and decodes the profile inside.
func Decrypt(e domain.EncryptedSnapshot, password string) (domain.Profile, error) {
	s, err := DecryptSnapshot(e, password)
	if err != nil {
		return domain.Profile{}, err
	}
	defer wipe(s)
	return Unmarshal(s)
}

// Inspect reports whether data holds a plaintext or an encrypted snapshot
// without decoding the profile.
func Inspect(data []byte) (Kind, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	switch {
	case fields["encryptedSnapshot"] != nil:
		return KindEncrypted, nil
	case fields["header"] != nil:
		return KindPlaintext, nil
	default:
		return 0, ErrUnknownFormat
	}
}

// Open decodes an export of either kind. The password is ignored for
// plaintext exports.
func Open(data []byte, password string) (domain.Profile, error) {
	kind, err := Inspect(data)
	if err != nil {
		return domain.Profile{}, err
	}
	if kind == KindPlaintext {
		return Unmarshal(data)
	}
	var e domain.EncryptedSnapshot
	if err := json.Unmarshal(data, &e); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	return Decrypt(e, password)
}
