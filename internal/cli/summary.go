package cli

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
	"github.com/babybuddywidgets/bbclient/internal/domain"
)

// maxSummaryFetches bounds concurrent requests issued by summary.
const maxSummaryFetches = 4

// SummaryCmd shows the latest entries of every per-child kind.
type SummaryCmd struct {
	Child int  `short:"c" required:"" help:"Child id."`
	Limit int  `default:"5" help:"Entries per kind."`
	JSON  bool `help:"Print as JSON."`
}

type kindSummary struct {
	Kind    babybuddy.Kind `json:"kind"`
	Total   int            `json:"total"`
	Entries []domain.Entry `json:"entries"`
}

// Run fetches the first page of every per-child kind concurrently and
// prints the results in table order.
func (cmd *SummaryCmd) Run(ctx *Context) error {
	client, err := ctx.client()
	if err != nil {
		return err
	}

	var kinds []babybuddy.KindInfo
	for _, info := range babybuddy.Kinds() {
		if info.ScopeKey == babybuddy.ScopeKeyChild {
			kinds = append(kinds, info)
		}
	}

	summaries := make([]kindSummary, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSummaryFetches)
	for i, info := range kinds {
		g.Go(func() error {
			page, err := client.FetchPage(gctx, babybuddy.PageRequest{
				Kind:     info.Kind,
				ParentID: cmd.Child,
				Limit:    cmd.Limit,
			})
			if err != nil {
				return err
			}
			summaries[i] = kindSummary{Kind: info.Kind, Total: page.Total, Entries: page.Entries}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cmd.JSON {
		return ctx.printJSON(summaries)
	}

	w := ctx.table()
	fmt.Fprintln(w, "KIND\tTOTAL\tLATEST")
	for _, s := range summaries {
		latest := "-"
		if len(s.Entries) > 0 {
			latest = s.Entries[0].String()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Kind, s.Total, latest)
	}
	return w.Flush()
}
