package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"walletcore/internal/device"
	"walletcore/internal/domain"
	"walletcore/internal/logging"
	"walletcore/internal/services/factorsource"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr      string
		mnemonic  string
		model     string
		latency   time.Duration
		logLevel  string
		logFormat string
	)
	cmd := &cobra.Command{
		Use:           "devicebridge",
		Short:         "Serve an emulated hardware wallet over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logging.Config{Level: logLevel, Format: logFormat})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			m := domain.MnemonicWithPassphrase{Mnemonic: strings.Join(strings.Fields(mnemonic), " ")}
			if m.Mnemonic == "" {
				if m, err = factorsource.Generate(factorsource.DefaultWordCount); err != nil {
					return err
				}
				fmt.Printf("Emulated device mnemonic (testing only):\n\n  %s\n\n", m.Mnemonic)
			}
			emu, err := device.NewEmulator(m, model)
			if err != nil {
				return err
			}
			info, err := emu.DeviceInfo(cmd.Context())
			if err != nil {
				return err
			}
			emu.WithLatency(latency)

			srv := &http.Server{
				Addr:              addr,
				Handler:           device.Handler(emu, log),
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("device bridge listening",
				zap.String("addr", addr),
				zap.Stringer("factorSource", info.ID),
				zap.String("model", info.Model),
				zap.Duration("latency", latency))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info("device bridge stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8732", "listen address")
	cmd.Flags().StringVar(&mnemonic, "mnemonic", os.Getenv("WALLETCORE_BRIDGE_MNEMONIC"), "mnemonic of the emulated device")
	cmd.Flags().StringVar(&model, "model", "nanoS+", "reported device model")
	cmd.Flags().DurationVar(&latency, "latency", 0, "artificial delay per request")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "console or json")
	return cmd
}
