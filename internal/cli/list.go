package cli

import (
	"fmt"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
	"github.com/babybuddywidgets/bbclient/internal/domain"
)

// ListCmd fetches entries of one kind.
type ListCmd struct {
	Kind    string   `arg:"" help:"Resource kind, see 'bbctl kinds'."`
	Child   int      `short:"c" help:"Child id the listing is scoped to."`
	Offset  int      `help:"Index of the first entry."`
	Limit   int      `help:"Page size (default: PAGE_SIZE)."`
	Filters []string `name:"filter" short:"f" sep:"none" placeholder:"KEY=VALUE" help:"Server-side filter, repeatable."`
	All     bool     `help:"Follow pages until the listing is exhausted."`
	JSON    bool     `help:"Print as JSON."`
}

type listOutput struct {
	Kind    babybuddy.Kind `json:"kind"`
	Offset  int            `json:"offset"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
	Entries []domain.Entry `json:"entries"`
}

// Run fetches one page, or every page with --all, and prints the entries.
func (cmd *ListCmd) Run(ctx *Context) error {
	kind, err := babybuddy.ParseKind(cmd.Kind)
	if err != nil {
		return err
	}
	filters, err := parseFilters(cmd.Filters)
	if err != nil {
		return err
	}
	cfg, err := ctx.config()
	if err != nil {
		return err
	}
	client, err := ctx.client()
	if err != nil {
		return err
	}

	limit := cmd.Limit
	if limit == 0 {
		limit = cfg.List.PageSize
	}

	req := babybuddy.PageRequest{
		Kind:     kind,
		ParentID: cmd.Child,
		Offset:   cmd.Offset,
		Limit:    limit,
		Filters:  filters,
	}
	out := listOutput{Kind: kind, Offset: cmd.Offset, Entries: []domain.Entry{}}
	log := ctx.logger()

	for {
		page, err := client.FetchPage(ctx, req)
		if err != nil {
			return err
		}
		out.Entries = append(out.Entries, page.Entries...)
		out.Total = page.Total
		out.HasMore = page.HasMore
		log.Debug("Fetched page", "kind", kind, "offset", page.Offset, "entries", page.Len(), "total", page.Total)

		if !cmd.All || !page.HasMore {
			break
		}
		req.Offset = page.NextOffset()
	}

	if cmd.JSON {
		return ctx.printJSON(out)
	}

	w := ctx.table()
	for _, e := range out.Entries {
		fmt.Fprintf(w, "%d\t%s\n", e.EntryID(), e)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	end := out.Offset + len(out.Entries)
	fmt.Fprintf(ctx.Out, "%d-%d of %d %s", out.Offset, end, out.Total, kind)
	if out.HasMore {
		fmt.Fprint(ctx.Out, " (more available)")
	}
	_, err = fmt.Fprintln(ctx.Out)
	return err
}
