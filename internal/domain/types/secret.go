package types

import "strings"

// MnemonicWithPassphrase is the secret behind a mnemonic factor source. It must
// never be logged or persisted unencrypted.
type MnemonicWithPassphrase struct {
	Mnemonic   string `json:"mnemonic"`
	Passphrase string `json:"passphrase"`
}

// Words returns the mnemonic words.
func (m MnemonicWithPassphrase) Words() []string { return strings.Fields(m.Mnemonic) }

// String redacts the secret so it cannot leak through fmt or loggers.
func (m MnemonicWithPassphrase) String() string { return "<redacted mnemonic>" }

// GoString redacts the secret for %#v.
func (m MnemonicWithPassphrase) GoString() string { return m.String() }

// HardwareDeviceInfo identifies a connected hardware wallet.
type HardwareDeviceInfo struct {
	ID    FactorSourceID `json:"id"`
	Model string         `json:"model"`
}
