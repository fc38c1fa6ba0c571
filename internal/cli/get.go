package cli

import (
	"fmt"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
)

// GetCmd prints one entry.
type GetCmd struct {
	Kind string `arg:"" help:"Resource kind, see 'bbctl kinds'."`
	ID   int    `arg:"" help:"Entry id."`
	JSON bool   `help:"Print as JSON."`
}

// Run fetches and prints the entry.
func (cmd *GetCmd) Run(ctx *Context) error {
	kind, err := babybuddy.ParseKind(cmd.Kind)
	if err != nil {
		return err
	}
	client, err := ctx.client()
	if err != nil {
		return err
	}
	entry, err := client.GetEntry(ctx, kind, cmd.ID)
	if err != nil {
		return err
	}

	if cmd.JSON {
		return ctx.printJSON(entry)
	}
	_, err = fmt.Fprintf(ctx.Out, "%s/%d %s\n", kind, cmd.ID, entry)
	return err
}
