package cli

import (
	"fmt"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
)

// DeleteCmd removes one entry.
type DeleteCmd struct {
	Kind          string `arg:"" help:"Resource kind, see 'bbctl kinds'."`
	ID            int    `arg:"" help:"Entry id."`
	IgnoreMissing bool   `help:"Succeed when the entry is already gone."`
}

// Run deletes the entry and reports the outcome.
func (cmd *DeleteCmd) Run(ctx *Context) error {
	kind, err := babybuddy.ParseKind(cmd.Kind)
	if err != nil {
		return err
	}
	client, err := ctx.client()
	if err != nil {
		return err
	}

	err = client.DeleteEntry(ctx, kind, cmd.ID)
	if cmd.IgnoreMissing {
		err = babybuddy.IgnoreNotFound(err)
	}
	if err != nil {
		return err
	}

	ctx.logger().Info("Entry deleted", "kind", kind, "id", cmd.ID)
	_, err = fmt.Fprintf(ctx.Out, "deleted %s/%d\n", kind, cmd.ID)
	return err
}
