package cli

import (
	"fmt"
	"time"

	"github.com/babybuddywidgets/bbclient/internal/domain"
)

// TimerCmd groups the timer commands.
type TimerCmd struct {
	Start   TimerStartCmd   `cmd:"" help:"Start a new timer."`
	Stop    TimerActiveCmd  `cmd:"" help:"Stop a running timer."`
	Restart TimerRestartCmd `cmd:"" help:"Restart a timer from now."`
}

// TimerStartCmd creates a running timer.
type TimerStartCmd struct {
	Child int    `short:"c" help:"Child the timer is for (0: none)."`
	Name  string `help:"Timer name."`
	JSON  bool   `help:"Print as JSON."`
}

// Run starts the timer at the current time.
func (cmd *TimerStartCmd) Run(ctx *Context) error {
	client, err := ctx.client()
	if err != nil {
		return err
	}
	timer, err := client.StartTimer(ctx, cmd.Child, cmd.Name, time.Now())
	if err != nil {
		return err
	}
	ctx.logger().Info("Timer started", "id", timer.ID)
	return printTimer(ctx, timer, cmd.JSON)
}

// TimerActiveCmd stops a timer.
type TimerActiveCmd struct {
	ID   int  `arg:"" help:"Timer id."`
	JSON bool `help:"Print as JSON."`
}

// Run stops the timer.
func (cmd *TimerActiveCmd) Run(ctx *Context) error {
	return setTimerActive(ctx, cmd.ID, false, cmd.JSON)
}

// TimerRestartCmd restarts a timer.
type TimerRestartCmd TimerActiveCmd

// Run restarts the timer.
func (cmd *TimerRestartCmd) Run(ctx *Context) error {
	return setTimerActive(ctx, cmd.ID, true, cmd.JSON)
}

func setTimerActive(ctx *Context, id int, active, asJSON bool) error {
	client, err := ctx.client()
	if err != nil {
		return err
	}
	timer, err := client.SetTimerActive(ctx, id, active)
	if err != nil {
		return err
	}
	ctx.logger().Info("Timer updated", "id", id, "active", active)
	return printTimer(ctx, timer, asJSON)
}

func printTimer(ctx *Context, timer *domain.Timer, asJSON bool) error {
	if asJSON {
		return ctx.printJSON(timer)
	}
	_, err := fmt.Fprintln(ctx.Out, timer)
	return err
}
