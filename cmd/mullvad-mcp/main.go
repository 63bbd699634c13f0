package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/config"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mcpsrv"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

func main() {
	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - MULLVAD_API_URL, MULLVAD_APP_API_URL, MULLVAD_PUBLIC_API_URL, MULLVAD_AM_I_URL
	// - HTTP_CLIENT_TIMEOUT_MS, MULLVAD_STATUS_CHECK, MULLVAD_ACCESS_TOKEN
	// - LOG_LEVEL, LOG_FORMAT, LOG_FILE (default: stderr only)
	// - etc. (see internal/config for all options)
	cfg := config.Load()

	c := mullvad.New(cfg.ClientOptions(nil)...)
	defer c.Close()

	server, err := mcpsrv.NewServer(c, mcpsrv.WithConfig(cfg))
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	// Run the server with stdio transport
	slog.Info("starting Mullvad MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
