package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-stars/internal/format"
	ghub "github.com/stahnma/gh-stars/internal/github"
)

func (a *App) newStarsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stars <owner/repo|url>...",
		Short: "Show the abbreviated star count for repositories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStars(cmd, args)
		},
	}
	cmd.Flags().Bool("json", false, "Output JSON")
	return cmd
}

func (a *App) runStars(cmd *cobra.Command, args []string) error {
	resolver, err := a.Resolver()
	if err != nil {
		return err
	}
	ctx := context.Background()
	asJSON, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	infos := make([]ghub.StarInfo, 0, len(args))
	for _, ref := range args {
		infos = append(infos, resolver.Lookup(ctx, ref))
	}

	if asJSON {
		return format.WriteJSON(w, infos)
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s: %s\n", info.Repository, info.Stars)
	}
	return nil
}
