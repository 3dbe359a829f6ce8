package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wdwxedit/plugdeploy/internal/interfaces/cli"
)

func main() {
	// Cancelling stops a running build and cuts the restart pause short.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
