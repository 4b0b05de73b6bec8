// Package entity creates accounts and personas.
//
// Creating an entity reads the factor source's next index, derives the public
// key at that index (from a stored mnemonic or on a hardware device), derives
// the address, and returns a new profile in which the entity is appended and
// the index counter advanced. The input profile is never modified, so a failed
// or cancelled creation leaves the caller's profile as it was.
package entity
