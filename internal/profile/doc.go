// Package profile implements the wallet's root aggregate as pure transforms.
//
// Every function takes a domain.Profile by value and returns a new one; the
// input is never modified and no function reads the clock or any other
// ambient state, so calling a transform twice with the same inputs yields
// structurally equal profiles. Serialising concurrent writers is the caller's
// job (see services/wallet).
//
// Invariants enforced here and checked by Validate:
//   - every network holds at least one account;
//   - entity addresses are unique across the whole profile;
//   - every factor instance references a factor source in the profile;
//   - next-index counters only ever grow, and stay above every index in use.
package profile
