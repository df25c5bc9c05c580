package log

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	LogVerbosityInfo  = 0
	LogVerbosityDebug = 1
	LogVerbosityTrace = 3

	LogFormatText = "text"
	LogFormatJSON = "json"

	LogOutputStderr = "stderr"
	LogOutputStdout = "stdout"
)

type loggerCtxKeyType string

const loggerCtxKey loggerCtxKeyType = "portablesource.logger"

// Config represents the configuration settings for a logger.
type Config struct {
	// Verbosity is the verbosity level of the logger. 0 is info,
	// 1-2 is debug and 3 and above is trace.
	Verbosity int
	// Format is the output format: text or json.
	Format string
	// Output is stderr, stdout or a file path.
	Output string
}

// Configure will configure the standard logrus logger from the supplied config.
func Configure(logConfig *Config) error {
	switch {
	case logConfig.Verbosity >= LogVerbosityTrace:
		logrus.SetLevel(logrus.TraceLevel)
	case logConfig.Verbosity >= LogVerbosityDebug:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	switch logConfig.Format {
	case LogFormatJSON:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case LogFormatText:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return invalidLogFormatError{format: logConfig.Format}
	}

	switch logConfig.Output {
	case "":
		return ErrLogOutputRequired
	case LogOutputStderr:
		logrus.SetOutput(os.Stderr)
	case LogOutputStdout:
		logrus.SetOutput(os.Stdout)
	default:
		file, err := os.OpenFile(logConfig.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", logConfig.Output, err)
		}

		logrus.SetOutput(file)
	}

	return nil
}

// WithLogger returns a context carrying the supplied logger.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetLogger returns the logger from the context or the standard logger.
func GetLogger(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerCtxKey).(*logrus.Entry); ok {
			return logger
		}
	}

	return logrus.NewEntry(logrus.StandardLogger())
}
