package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"packgrid/internal/config"
	"packgrid/internal/ui"
	"packgrid/internal/util/logx"
	"packgrid/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("packgrid", version.String())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.ExportFormat != "" {
		if err := exportHeadless(ctx, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(1)
		}
		return
	}

	logx.Infof("starting packgrid %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("packgrid exited with error: %v", err)
		os.Exit(1)
	}
}
