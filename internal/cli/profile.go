package cli

import "fmt"

// ProfileCmd prints the authenticated account.
type ProfileCmd struct {
	JSON bool `help:"Print as JSON."`
}

// Run fetches and prints the profile. The API key is never printed.
func (cmd *ProfileCmd) Run(ctx *Context) error {
	client, err := ctx.client()
	if err != nil {
		return err
	}
	profile, err := client.GetProfile(ctx)
	if err != nil {
		return err
	}
	profile.APIKey = ""

	if cmd.JSON {
		return ctx.printJSON(profile)
	}
	_, err = fmt.Fprintln(ctx.Out, profile)
	return err
}
