package cli

import (
	"fmt"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
)

// KindsCmd prints the kind table.
type KindsCmd struct {
	JSON bool `help:"Print as JSON."`
}

// Run prints every supported kind with its addressing.
func (cmd *KindsCmd) Run(ctx *Context) error {
	kinds := babybuddy.Kinds()
	if cmd.JSON {
		return ctx.printJSON(kinds)
	}

	w := ctx.table()
	fmt.Fprintln(w, "KIND\tPATH\tSCOPE KEY\tSCOPE REQUIRED")
	for _, info := range kinds {
		fmt.Fprintf(w, "%s\t%s/\t%s\t%t\n", info.Kind, info.Path, info.ScopeKey, info.ScopeRequired)
	}
	return w.Flush()
}
