// Package snapshot converts profiles to and from their persisted forms.
//
// A plaintext snapshot is the canonical JSON encoding of a profile. An
// encrypted snapshot wraps those bytes in a versioned envelope: the key is
// derived from the password with HKDF-SHA256 (UTF-8 password, no salt, no
// info) and the payload is sealed with AES-256-GCM under a fresh random nonce.
// The envelope records the scheme versions so older exports stay readable.
package snapshot
