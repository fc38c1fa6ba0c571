// Package di provides dependency injection configuration for the Baby Buddy command line client.
package di

import (
	"github.com/samber/do/v2"

	"github.com/babybuddywidgets/bbclient/internal/config"
	"github.com/babybuddywidgets/bbclient/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
// Services are built lazily, so commands that never talk to the server
// never load or validate the server configuration.
func NewContainer(overrides config.Overrides) *do.RootScope {
	injector := do.New()

	// Command-line input
	do.ProvideValue(injector, overrides)

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Client layer
	do.Provide(injector, providers.ProvideTransport)
	do.Provide(injector, providers.ProvideClient)

	return injector
}
