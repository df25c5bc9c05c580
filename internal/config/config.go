package config

import (
	"time"

	"portablesource/pkg/log"
)

// Config represents the portablesource configuration.
type Config struct {
	// Logging contains the logging related config.
	Logging log.Config
	// InstallPath is the root holding repos, envs and the portable tools.
	InstallPath string
	// TargetOS is the GOOS launchers and environments are built for.
	TargetOS string
	// ServerURL is the base URL of the plan authority.
	ServerURL string
	// AuthorityTimeout bounds every request to the plan authority.
	AuthorityTimeout time.Duration
	// AuthorityRate is the request budget per second towards the plan authority.
	AuthorityRate float64
	// GitMaxAttempts is the number of pull attempts of one update.
	GitMaxAttempts int
	// GPUName overrides adapter detection when set.
	GPUName string
	// GPUMemoryMB is the adapter memory used with GPUName.
	GPUMemoryMB int
	// AllowStale continues with the existing source tree when updating it fails.
	AllowStale bool
	// FallbackOnRemoteFailure synthesizes a local plan when a server plan fails.
	FallbackOnRemoteFailure bool
	// ExceptionsFile is a JSON file replacing the built-in package exceptions.
	ExceptionsFile string
	// MetricsFile receives the run metrics in text exposition format on exit.
	MetricsFile string
	// OutputFormat is the rendering of plan and sysinfo output: yaml or json.
	OutputFormat string
}
