package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"loandash/internal/logger"
	"loandash/internal/server"
)

var (
	serveAddr    string
	serveDriver  string
	serveLatency time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve loans over HTTP",
	Long: `Serve the loans endpoint (GET /api/loans) backed by the configured store.
Responses are delayed by --latency to mimic a remote backend.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().DurationVar(&serveLatency, "latency", -1, "Artificial response delay (default from config)")
	storeFlags(serveCmd, &serveDriver)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	latency := cfg.Server.Latency
	if serveLatency >= 0 {
		latency = serveLatency
	}

	store, err := openStore(ctx, storeConfig(serveDriver))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	srv := server.New(store, server.WithLatency(latency), server.WithLogger(logger.Log))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	logger.Log.Info("Server stopped")
	return nil
}
