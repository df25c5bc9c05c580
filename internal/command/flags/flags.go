package flags

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"portablesource/internal/config"
	"portablesource/pkg/defaults"
)

const (
	installPathFlag             = "install-path"
	targetOSFlag                = "target-os"
	serverURLFlag               = "server-url"
	authorityTimeoutFlag        = "authority-timeout"
	authorityRateFlag           = "authority-rate"
	metricsFileFlag             = "metrics-file"
	gpuNameFlag                 = "gpu-name"
	gpuMemoryFlag               = "gpu-memory"
	allowStaleFlag              = "allow-stale"
	fallbackOnRemoteFailureFlag = "fallback-on-remote-failure"
	gitMaxAttemptsFlag          = "git-max-attempts"
	exceptionsFileFlag          = "exceptions-file"
	outputFlag                  = "output"
)

// AddGlobalFlagsToCommand will add the flags every subcommand shares to the
// supplied root command.
func AddGlobalFlagsToCommand(cmd *cobra.Command, cfg *config.Config) error {
	cmd.PersistentFlags().StringVar(&cfg.InstallPath,
		installPathFlag,
		defaults.InstallDir,
		"The directory holding repositories, environments and the portable tools.")

	cmd.PersistentFlags().StringVar(&cfg.ServerURL,
		serverURLFlag,
		defaults.ServerURL,
		"The base URL of the plan server.")

	cmd.PersistentFlags().DurationVar(&cfg.AuthorityTimeout,
		authorityTimeoutFlag,
		defaults.AuthorityTimeout,
		"The timeout for each request to the plan server.")

	cmd.PersistentFlags().Float64Var(&cfg.AuthorityRate,
		authorityRateFlag,
		defaults.AuthorityRate,
		"The maximum number of requests per second to the plan server. 0 disables the limit.")

	cmd.PersistentFlags().StringVar(&cfg.MetricsFile,
		metricsFileFlag,
		"",
		"Write the run metrics to this file in the Prometheus text format.")

	cmd.PersistentFlags().StringVar(&cfg.TargetOS,
		targetOSFlag,
		runtime.GOOS,
		"The operating system launchers and environments are generated for.")

	if err := cmd.PersistentFlags().MarkHidden(targetOSFlag); err != nil {
		return fmt.Errorf("setting %s as hidden: %w", targetOSFlag, err)
	}

	return nil
}

// AddHardwareFlagsToCommand will add the GPU override flags to the supplied command.
func AddHardwareFlagsToCommand(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.GPUName,
		gpuNameFlag,
		"",
		"Use this adapter name instead of detecting the GPU, e.g. \"NVIDIA GeForce RTX 4090\".")

	cmd.Flags().IntVar(&cfg.GPUMemoryMB,
		gpuMemoryFlag,
		0,
		"The adapter memory in MB used with --gpu-name.")
}

// AddProvisionFlagsToCommand will add the install and update flags to the supplied command.
func AddProvisionFlagsToCommand(cmd *cobra.Command, cfg *config.Config) {
	AddHardwareFlagsToCommand(cmd, cfg)

	cmd.Flags().BoolVar(&cfg.AllowStale,
		allowStaleFlag,
		false,
		"Continue with the existing source tree when updating it fails.")

	cmd.Flags().BoolVar(&cfg.FallbackOnRemoteFailure,
		fallbackOnRemoteFailureFlag,
		false,
		"Install from the repository manifest when the server plan fails.")

	cmd.Flags().IntVar(&cfg.GitMaxAttempts,
		gitMaxAttemptsFlag,
		defaults.GitMaxAttempts,
		"Number of pull attempts before giving up on an update.")

	cmd.Flags().StringVar(&cfg.ExceptionsFile,
		exceptionsFileFlag,
		"",
		"Path to a JSON file replacing the built-in package exceptions.")
}

// AddOutputFlagsToCommand will add the output format flag to the supplied command.
func AddOutputFlagsToCommand(cmd *cobra.Command, cfg *config.Config, defaultFormat string) {
	usage := "The output format: yaml or json."
	if defaultFormat != defaults.OutputFormat {
		usage = fmt.Sprintf("The output format: %s, yaml or json.", defaultFormat)
	}

	cmd.Flags().StringVarP(&cfg.OutputFormat,
		outputFlag,
		"o",
		defaultFormat,
		usage)
}
