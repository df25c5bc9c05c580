package plan

import (
	"context"

	"github.com/spf13/cobra"

	cmdflags "portablesource/internal/command/flags"
	"portablesource/internal/command/output"
	"portablesource/internal/config"
	"portablesource/internal/inject"
	"portablesource/pkg/app"
	"portablesource/pkg/defaults"
	"portablesource/pkg/flags"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "plan <name>",
		Short: "Show the installation plan of a repository without installing anything",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return inject.Run(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
				preview, err := a.Plan(ctx, args[0])
				if err != nil {
					return err
				}

				return output.Write(cmd.OutOrStdout(), cfg.OutputFormat, preview)
			})
		},
	}

	cmdflags.AddHardwareFlagsToCommand(cmd, cfg)
	cmdflags.AddOutputFlagsToCommand(cmd, cfg, defaults.OutputFormat)

	return cmd, nil
}
