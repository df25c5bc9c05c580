package list

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"portablesource/internal/config"
	"portablesource/internal/inject"
	"portablesource/pkg/app"
	"portablesource/pkg/flags"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed repositories",
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inject.Run(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
				repos, err := a.List(ctx)
				if err != nil {
					return err
				}

				printRepositories(cmd.OutOrStdout(), repos)

				return nil
			})
		},
	}

	return cmd, nil
}

var labelColors = map[string]*color.Color{
	app.LabelGitHub: color.New(color.FgGreen),
	app.LabelGit:    color.New(color.FgCyan),
	app.LabelServer: color.New(color.FgMagenta),
}

func printRepositories(w io.Writer, repos []app.InstalledRepository) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "no repositories installed")

		return
	}

	for _, repo := range repos {
		label := labelColors[repo.Label].Sprintf("[%s]", repo.Label)

		env := ""
		if !repo.HasEnvironment {
			env = color.YellowString(" (no environment)")
		}

		fmt.Fprintf(w, "%-32s %s%s\n", repo.Name, label, env)
	}
}
