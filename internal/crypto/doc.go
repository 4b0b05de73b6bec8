// Package crypto is the key derivation engine of the wallet.
//
// Contents
//
//   - BIP-39 mnemonic generation, validation and seed stretching
//     (GenerateMnemonic, ValidateMnemonic, Seed)
//   - SLIP-10 ed25519 derivation for CAP-26 paths and BIP-32 secp256k1
//     derivation for BIP44-Olympia paths (DerivePublicKey, DerivePrivateKey)
//   - Signing with a transiently derived private key (PrivateKey.Sign)
//   - Bech32m entity addresses (DeriveAddress)
//   - Content-derived factor source ids (FactorSourceIDFromMnemonic,
//     FactorSourceIDFromPublicKey, FactorSourceIDFromAddress)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Private keys exist only for the duration of a call. Callers that obtain a
// PrivateKey must Wipe it when done. Seeds are wiped before returning.
package crypto
