package update

import (
	"context"

	"github.com/spf13/cobra"

	cmdflags "portablesource/internal/command/flags"
	"portablesource/internal/config"
	"portablesource/internal/inject"
	"portablesource/pkg/app"
	"portablesource/pkg/flags"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Pull an installed repository and reinstall its dependencies",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, args[0])
		},
	}

	cmdflags.AddProvisionFlagsToCommand(cmd, cfg)

	return cmd, nil
}

func run(ctx context.Context, cfg *config.Config, name string) error {
	return inject.Run(ctx, cfg, func(ctx context.Context, a *app.App) error {
		return a.Update(ctx, name)
	})
}
