package app

import (
	"net/http"

	"walletcore/internal/domain"
	"walletcore/internal/logging"
)

// Store backends.
const (
	StoreFile = "file"
	StoreBolt = "bolt"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string // data directory, e.g. $HOME/.walletcore
	Store     string // StoreFile or StoreBolt; defaults to StoreFile
	BridgeURL string // device bridge base URL; empty disables hardware wallets
	// KeystorePassphrase seals device mnemonics at rest. It defaults to the
	// profile password when empty.
	KeystorePassphrase string
	Network            domain.NetworkID // default network for new entities
	Log                logging.Config
	HTTP               *http.Client // optional; defaults to http.DefaultClient
}
