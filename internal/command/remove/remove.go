package remove

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"portablesource/internal/config"
	"portablesource/internal/inject"
	"portablesource/pkg/app"
	"portablesource/pkg/flags"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"remove", "rm"},
		Short:   "Delete an installed repository and its environment",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return inject.Run(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
				if err := a.Delete(ctx, args[0]); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])

				return nil
			})
		},
	}

	return cmd, nil
}
