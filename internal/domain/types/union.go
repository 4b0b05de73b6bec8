package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Polymorphic values are encoded as {"discriminator": "<variant>", "<key>": <payload>}.

func marshalUnion(discriminator, key string, payload any) ([]byte, error) {
	d, err := json.Marshal(discriminator)
	if err != nil {
		return nil, err
	}
	k, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"discriminator":`)
	buf.Write(d)
	buf.WriteByte(',')
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(p)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalUnion returns the discriminator and the raw payload stored under the key
// that keyFor maps it to.
func unmarshalUnion(b []byte, keyFor func(discriminator string) string) (string, json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return "", nil, err
	}
	var discriminator string
	raw, ok := fields["discriminator"]
	if !ok {
		return "", nil, fmt.Errorf("missing discriminator")
	}
	if err := json.Unmarshal(raw, &discriminator); err != nil {
		return "", nil, fmt.Errorf("discriminator: %w", err)
	}
	key := keyFor(discriminator)
	payload, ok := fields[key]
	if !ok {
		return discriminator, nil, fmt.Errorf("missing %q payload for discriminator %q", key, discriminator)
	}
	return discriminator, payload, nil
}

func sameKey(discriminator string) string { return discriminator }
