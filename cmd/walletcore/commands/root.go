package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"walletcore/internal/app"
	"walletcore/internal/domain/types"
	"walletcore/internal/logging"
)

var (
	home        string
	password    string
	storeKind   string
	bridgeURL   string
	networkName string
	logLevel    string
	logFormat   string

	cfg  app.Config
	wire *app.Wire
)

var errPasswordRequired = errors.New("password required (-p)")

func env(name, def string) string {
	if v := os.Getenv("WALLETCORE_" + name); v != "" {
		return v
	}
	return def
}

func Execute() error {
	root := &cobra.Command{
		Use:           "walletcore",
		Short:         "Self-custodial wallet key management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".walletcore")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			network, err := types.ParseNetworkID(networkName)
			if err != nil {
				return err
			}

			cfg = app.Config{
				Home:               home,
				Store:              storeKind,
				BridgeURL:          bridgeURL,
				KeystorePassphrase: env("KEYSTORE_PASSPHRASE", password),
				Network:            network,
				Log:                logging.Config{Level: logLevel, Format: logFormat},
			}
			wire, err = app.NewWire(cfg)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", env("HOME", ""), "data dir (default ~/.walletcore)")
	pf.StringVarP(&password, "password", "p", env("PASSWORD", ""), "password protecting the profile")
	pf.StringVar(&storeKind, "store", env("STORE", app.StoreFile), "snapshot store: file or bolt")
	pf.StringVar(&bridgeURL, "bridge", env("BRIDGE", ""), "device bridge base URL (e.g. http://127.0.0.1:8732)")
	pf.StringVar(&networkName, "network", env("NETWORK", "mainnet"), "network for new entities")
	pf.StringVar(&logLevel, "log-level", env("LOG_LEVEL", "warn"), "debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", env("LOG_FORMAT", "console"), "console or json")

	root.AddCommand(
		initCmd(),
		accountCmd(),
		personaCmd(),
		listCmd(),
		factorSourceCmd(),
		deriveCmd(),
		connectorCmd(),
		exportCmd(),
		importCmd(),
		verifyCmd(),
		resetCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := root.ExecuteContext(ctx)
	if wire != nil {
		err = errors.Join(err, wire.Close())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

// openWallet decrypts the stored profile with the --password flag.
func openWallet() error {
	if password == "" {
		return errPasswordRequired
	}
	return wire.Wallet.Open(password)
}
