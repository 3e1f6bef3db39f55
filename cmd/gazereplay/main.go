// Package main provides the CLI entrypoint for gazereplay.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/wit/internal/cmd/gazereplay"
	entrypoint "github.com/louisbranch/wit/internal/platform/cmd"
	"github.com/louisbranch/wit/internal/platform/config"
)

func main() {
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceReplay))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := gazereplay.NewRootCmd().ExecuteContext(ctx)
	stop()
	config.ExitOnError(err, "replay")
}
