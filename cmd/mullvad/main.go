package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/cli"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/config"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := config.Load()
	logCleanup, err := logging.Setup(logging.FromConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup logging: %v\n", err)
		os.Exit(1)
	}

	code := cli.Execute(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	_ = logCleanup()
	cancel()
	os.Exit(code)
}
