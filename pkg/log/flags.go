package log

import "github.com/spf13/cobra"

// AddFlagsToCommand will add the logging flags to the supplied command.
func AddFlagsToCommand(cmd *cobra.Command, cfg *Config) {
	cmd.PersistentFlags().IntVarP(&cfg.Verbosity,
		"verbosity",
		"v",
		LogVerbosityInfo,
		"The verbosity level of the logging. The level must be a number between 0 and 9. 0 is info, 1-2 is debug, 3 and above is trace.")

	cmd.PersistentFlags().StringVar(&cfg.Format,
		"log-format",
		LogFormatText,
		"The format of the logging output. Can be 'text' or 'json'.")

	cmd.PersistentFlags().StringVar(&cfg.Output,
		"log-output",
		LogOutputStderr,
		"The output for logging. Supply a file path or 'stderr' or 'stdout'.")
}
