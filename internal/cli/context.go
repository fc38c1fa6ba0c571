// Package cli implements the bbctl commands on top of the Baby Buddy client.
package cli

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/samber/do/v2"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
	"github.com/babybuddywidgets/bbclient/internal/config"
	"github.com/babybuddywidgets/bbclient/internal/logger"
)

// CLI is the bbctl command tree.
type CLI struct {
	Server   string `help:"Baby Buddy server URL (env: BABYBUDDY_URL)." placeholder:"URL"`
	Token    string `help:"API key (env: BABYBUDDY_TOKEN)."`
	EnvFile  string `help:"Path to .env file." name:"env-file" default:".env" type:"path"`
	LogLevel string `help:"Log level: debug, info, warn, error (env: LOG_LEVEL)." name:"log-level"`
	Timeout  string `help:"Per-request timeout, e.g. 10s (env: HTTP_TIMEOUT)."`

	Kinds   KindsCmd   `cmd:"" help:"List supported resource kinds."`
	List    ListCmd    `cmd:"" help:"List one page of entries of a kind."`
	Get     GetCmd     `cmd:"" help:"Show one entry."`
	Timer   TimerCmd   `cmd:"" help:"Manage timers."`
	Delete  DeleteCmd  `cmd:"" help:"Delete one entry."`
	Profile ProfileCmd `cmd:"" help:"Show the authenticated user's profile."`
	Summary SummaryCmd `cmd:"" help:"Show the latest entries of every kind for a child."`
}

// Overrides returns the global flags as configuration overrides.
func (c *CLI) Overrides() config.Overrides {
	return config.Overrides{
		ServerURL: c.Server,
		Token:     c.Token,
		EnvFile:   c.EnvFile,
		LogLevel:  c.LogLevel,
		Timeout:   c.Timeout,
	}
}

// Context is passed to every command's Run method.
type Context struct {
	context.Context

	Injector do.Injector
	Out      io.Writer
}

func (c *Context) client() (*babybuddy.Client, error) {
	return do.Invoke[*babybuddy.Client](c.Injector)
}

func (c *Context) config() (*config.Config, error) {
	return do.Invoke[*config.Config](c.Injector)
}

func (c *Context) logger() *slog.Logger {
	log, err := do.Invoke[*logger.Logger](c.Injector)
	if err != nil {
		return slog.New(slog.DiscardHandler)
	}
	return log.Logger
}

func (c *Context) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
}

func (c *Context) printJSON(v any) error {
	if err := json.MarshalWrite(c.Out, v, jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err := fmt.Fprintln(c.Out)
	return err
}

// parseFilters turns KEY=VALUE arguments into filters.
func parseFilters(args []string) (babybuddy.Filters, error) {
	filters := make(babybuddy.Filters, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected KEY=VALUE", arg)
		}
		filters[key] = value
	}
	return filters, nil
}
