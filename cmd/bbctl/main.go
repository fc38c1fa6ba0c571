// Package main provides the entry point for the bbctl command line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/babybuddywidgets/bbclient/internal/cli"
	"github.com/babybuddywidgets/bbclient/internal/di"
)

func main() {
	var app cli.CLI
	kctx := kong.Parse(&app,
		kong.Name("bbctl"),
		kong.Description("Browse and prune Baby Buddy records from the terminal."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Create DI container; services are built on first use
	injector := di.NewContainer(app.Overrides())

	err := kctx.Run(&cli.Context{
		Context:  ctx,
		Injector: injector,
		Out:      os.Stdout,
	})
	stop()

	// The DI container closes the transport
	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: shutdown: %v\n", shutdownErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
