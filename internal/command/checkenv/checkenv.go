package checkenv

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"portablesource/internal/config"
	"portablesource/internal/inject"
	"portablesource/pkg/app"
	"portablesource/pkg/flags"
)

var errMissingTools = errors.New("required tools are missing")

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "checkenv",
		Short: "Check that git, python and ffmpeg are available",
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inject.Run(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
				statuses, ok := a.CheckEnv(ctx)

				for _, status := range statuses {
					if status.Found {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s %s\n", color.GreenString("ok"), status.Name, status.Path)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s not found\n", color.RedString("!!"), status.Name)
					}
				}

				if !ok {
					return errMissingTools
				}

				return nil
			})
		},
	}

	return cmd, nil
}
