package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"portablesource/internal/config"
	"portablesource/internal/inject"
	"portablesource/pkg/app"
	"portablesource/pkg/flags"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the repositories known to the plan server",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return inject.Run(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
				found := a.Search(ctx, query)
				if len(found) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "no repositories match %q\n", query)

					return nil
				}

				for _, repo := range found {
					fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", repo.Name, repo.URL)

					if repo.Description != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", repo.Description)
					}
				}

				return nil
			})
		},
	}

	return cmd, nil
}
