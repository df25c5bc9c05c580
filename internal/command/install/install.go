package install

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
		Use:   "install <url-or-name>",
		Short: "Clone a repository and build its environment and launcher",
		Example: "  portablesource install https://github.com/facefusion/facefusion\n" +
			"  portablesource install comfyanonymous/ComfyUI\n" +
			"  portablesource install facefusion",
		Args: cobra.ExactArgs(1),
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

func run(ctx context.Context, cfg *config.Config, ref string) error {
	return inject.Run(ctx, cfg, func(ctx context.Context, a *app.App) error {
		return a.Install(ctx, ref)
	})
}
