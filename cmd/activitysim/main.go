package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/stigoleg/activity-sim/internal/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	code := cli.Execute(ctx, version)
	stop()
	os.Exit(code)
}
