package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"portablesource/internal/command/checkenv"
	cmdflags "portablesource/internal/command/flags"
	"portablesource/internal/command/install"
	"portablesource/internal/command/list"
	"portablesource/internal/command/plan"
	"portablesource/internal/command/remove"
	"portablesource/internal/command/search"
	"portablesource/internal/command/sysinfo"
	"portablesource/internal/command/update"
	"portablesource/internal/config"
	"portablesource/internal/version"
	"portablesource/pkg/environment"
	"portablesource/pkg/flags"
	"portablesource/pkg/log"
)

func NewRootCommand() (*cobra.Command, error) {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "portablesource",
		Short:         "PortableSource - portable installs of Python ML repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags.BindCommandToViper(cmd)

			if err := log.Configure(&cfg.Logging); err != nil {
				return fmt.Errorf("configuring logging: %w", err)
			}

			installPath, err := environment.ResolveInstallPath(cfg.InstallPath)
			if err != nil {
				return fmt.Errorf("resolving install path: %w", err)
			}

			cfg.InstallPath = installPath

			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}

	log.AddFlagsToCommand(cmd, &cfg.Logging)

	if err := cmdflags.AddGlobalFlagsToCommand(cmd, cfg); err != nil {
		return nil, fmt.Errorf("adding global flags: %w", err)
	}

	if err := addRootSubCommands(cmd, cfg); err != nil {
		return nil, fmt.Errorf("adding subcommands: %w", err)
	}

	cobra.OnInitialize(initCobra)

	return cmd, nil
}

func initCobra() {
	viper.SetEnvPrefix("PORTABLESOURCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	viper.AddConfigPath("$HOME/.config/portablesource/")
	viper.AddConfigPath(".")

	_ = viper.ReadInConfig()
}

func addRootSubCommands(cmd *cobra.Command, cfg *config.Config) error {
	constructors := []struct {
		name string
		fn   func(*config.Config) (*cobra.Command, error)
	}{
		{"install", install.NewCommand},
		{"update", update.NewCommand},
		{"delete", remove.NewCommand},
		{"list", list.NewCommand},
		{"search", search.NewCommand},
		{"plan", plan.NewCommand},
		{"sysinfo", sysinfo.NewCommand},
		{"checkenv", checkenv.NewCommand},
	}

	for _, c := range constructors {
		sub, err := c.fn(cfg)
		if err != nil {
			return fmt.Errorf("creating %s command: %w", c.name, err)
		}

		cmd.AddCommand(sub)
	}

	cmd.AddCommand(versionCommand())

	return nil
}

func versionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of portablesource",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				long, short bool
				err         error
			)

			if long, err = cmd.Flags().GetBool("long"); err != nil {
				return err
			}

			if short, err = cmd.Flags().GetBool("short"); err != nil {
				return err
			}

			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)

				return nil
			}

			if long {
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"%s\n  Version:    %s\n  CommitHash: %s\n  BuildDate:  %s\n",
					version.PackageName,
					version.Version,
					version.CommitHash,
					version.BuildDate,
				)

				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.PackageName, version.Version)

			return nil
		},
	}

	_ = cmd.Flags().Bool("long", false, "Print long version information")
	_ = cmd.Flags().Bool("short", false, "Print short version information")

	return cmd
}
