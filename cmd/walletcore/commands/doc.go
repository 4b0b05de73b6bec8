// Package commands defines the walletcore CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init                         Create a profile with a new or given mnemonic
//   - account create               Derive and add an account
//   - persona create               Derive and add a persona
//   - list                         Print accounts and personas per network
//   - factor-source list           Print factor sources and their next indices
//   - factor-source add-ledger     Add the hardware wallet behind --bridge
//   - factor-source add-off-device Add a mnemonic that is not kept on this device
//   - derive                       Print the public key at a derivation path
//   - connector add|remove         Manage linked browser connectors
//   - export / import              Move a profile between devices
//   - verify                       Re-derive stored keys and addresses
//   - reset                        Delete the profile and its mnemonics
//
// # Implementation
//
// The root command builds the dependency graph (logger, stores, device
// bridge client, services) before any subcommand runs. Every flag falls back
// to a WALLETCORE_<NAME> environment variable.
package commands
