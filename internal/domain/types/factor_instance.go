package types

import (
	"encoding/json"
	"fmt"
)

// FactorInstance is one public key derived from a factor source at a path.
type FactorInstance struct {
	FactorSourceID FactorSourceID
	PublicKey      PublicKey
	DerivationPath DerivationPath
}

// Equal compares every field.
func (fi FactorInstance) Equal(o FactorInstance) bool {
	return fi.FactorSourceID == o.FactorSourceID &&
		fi.PublicKey.Equal(o.PublicKey) &&
		fi.DerivationPath == o.DerivationPath
}

const (
	discriminatorFromHash      = "fromHash"
	discriminatorVirtualSource = "virtualSource"
	discriminatorHDPublicKey   = "hierarchicalDeterministicPublicKey"
)

type hdPublicKeyJSON struct {
	PublicKey      PublicKey      `json:"publicKey"`
	DerivationPath DerivationPath `json:"derivationPath"`
}

type factorInstanceJSON struct {
	FactorSourceID json.RawMessage `json:"factorSourceID"`
	Badge          json.RawMessage `json:"badge"`
}

// MarshalJSON nests the key under the badge/virtualSource surrogate layers.
func (fi FactorInstance) MarshalJSON() ([]byte, error) {
	id, err := marshalUnion(discriminatorFromHash, discriminatorFromHash, fi.FactorSourceID)
	if err != nil {
		return nil, err
	}
	hd, err := json.Marshal(hdPublicKeyJSON{PublicKey: fi.PublicKey, DerivationPath: fi.DerivationPath})
	if err != nil {
		return nil, err
	}
	source, err := marshalUnion(discriminatorHDPublicKey, discriminatorHDPublicKey, json.RawMessage(hd))
	if err != nil {
		return nil, err
	}
	badge, err := marshalUnion(discriminatorVirtualSource, discriminatorVirtualSource, json.RawMessage(source))
	if err != nil {
		return nil, err
	}
	return json.Marshal(factorInstanceJSON{FactorSourceID: id, Badge: badge})
}

func (fi *FactorInstance) UnmarshalJSON(b []byte) error {
	var raw factorInstanceJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	expect := func(data []byte, want string) (json.RawMessage, error) {
		got, payload, err := unmarshalUnion(data, sameKey)
		if err != nil {
			return nil, err
		}
		if got != want {
			return nil, fmt.Errorf("factor instance: unsupported %q, want %q", got, want)
		}
		return payload, nil
	}

	idRaw, err := expect(raw.FactorSourceID, discriminatorFromHash)
	if err != nil {
		return err
	}
	var id FactorSourceID
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return err
	}
	sourceRaw, err := expect(raw.Badge, discriminatorVirtualSource)
	if err != nil {
		return err
	}
	hdRaw, err := expect(sourceRaw, discriminatorHDPublicKey)
	if err != nil {
		return err
	}
	var hd hdPublicKeyJSON
	if err := json.Unmarshal(hdRaw, &hd); err != nil {
		return err
	}
	if hd.PublicKey.Curve != hd.DerivationPath.Curve() {
		return fmt.Errorf("factor instance: %s key on %s path", hd.PublicKey.Curve, hd.DerivationPath.Scheme)
	}
	*fi = FactorInstance{FactorSourceID: id, PublicKey: hd.PublicKey, DerivationPath: hd.DerivationPath}
	return nil
}
