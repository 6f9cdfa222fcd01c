// Package main provides codex cache maintenance utilities.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-meridian/codex-cache/internal/platform/cmd"
	"github.com/dusk-meridian/codex-cache/internal/platform/config"
	"github.com/dusk-meridian/codex-cache/internal/tools/codexctl"
)

func main() {
	cfg, err := codexctl.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	err = cmd.RunWithTelemetry(ctx, cmd.ToolCodexctl, func(ctx context.Context) error {
		return codexctl.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}
