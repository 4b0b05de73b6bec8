// Package factorsource creates factor sources.
//
// Mnemonic-backed sources get their content-derived id from the key at the
// factor source id path. Device mnemonics are saved to the mnemonic store; off-device
// mnemonics are not kept. Ledger sources are identified by asking the
// connected device.
package factorsource
