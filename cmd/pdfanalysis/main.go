// Package main provides the entry point for the pdfanalysis CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
