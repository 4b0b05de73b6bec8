// Package wallet owns the current profile.
//
// Every change goes through one mutex: the new profile is computed from the
// current one, validated, encrypted and written to the snapshot store, and
// only then replaces the in-memory value. The lock is held across hardware
// device round-trips so two callers can never be handed the same derivation
// index. A failed or cancelled change leaves both copies untouched.
package wallet
