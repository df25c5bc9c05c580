package sysinfo

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdflags "portablesource/internal/command/flags"
	"portablesource/internal/command/output"
	"portablesource/internal/config"
	"portablesource/internal/inject"
	"portablesource/pkg/app"
	"portablesource/pkg/flags"
)

const textFormat = "text"

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "sysinfo",
		Short: "Show the detected GPU and the hardware profile derived from it",
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inject.Run(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
				report, err := a.SystemInfo(ctx)
				if err != nil {
					return err
				}

				if cfg.OutputFormat == textFormat {
					printReport(cmd.OutOrStdout(), report)

					return nil
				}

				return output.Write(cmd.OutOrStdout(), cfg.OutputFormat, report)
			})
		},
	}

	cmdflags.AddHardwareFlagsToCommand(cmd, cfg)
	cmdflags.AddOutputFlagsToCommand(cmd, cfg, textFormat)

	return cmd, nil
}

func printReport(w io.Writer, report *app.SystemReport) {
	bold := color.New(color.Bold)

	gpu := report.GPU.Name
	if gpu == "" {
		gpu = color.YellowString("none detected")
	}

	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Install path:"), report.InstallPath)
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("GPU:         "), gpu)

	if report.GPU.MemoryMB > 0 {
		fmt.Fprintf(w, "%s %d MB\n", bold.Sprint("Memory:      "), report.GPU.MemoryMB)
	}

	profile := report.Profile
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Backend:     "), color.GreenString(string(profile.Backend)))
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Generation:  "), profile.Generation)

	if profile.ToolkitVersion != "" {
		fmt.Fprintf(w, "%s %s\n", bold.Sprint("CUDA:        "), profile.ToolkitVersion)
	}

	if report.Stored != nil && report.Stored.RawName != profile.RawName {
		fmt.Fprintf(w, "%s %s\n", bold.Sprint("Stored GPU:  "), report.Stored.RawName)
	}
}
