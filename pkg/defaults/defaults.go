package defaults

import "time"

const (
	// InstallDir is the default install path, relative to the home directory.
	InstallDir = "~/portablesource"

	// ServerURL is the plan authority base URL.
	ServerURL = "https://portables.dev"

	// AuthorityTimeout bounds every request to the plan authority.
	AuthorityTimeout = 10 * time.Second

	// AuthorityRate is the request budget per second towards the plan authority.
	AuthorityRate = 5.0

	// GitMaxAttempts is the number of pull attempts before giving up.
	GitMaxAttempts = 3

	// GitCommandTimeout bounds remediation commands. Clone and pull are unbounded.
	GitCommandTimeout = 2 * time.Minute

	// LockRetryDelay is how long to wait before garbage-collecting a locked repository.
	LockRetryDelay = 2 * time.Second

	// ToolProbeTimeout bounds version probes of installers and tools.
	ToolProbeTimeout = 10 * time.Second

	// ConfigFileName is the persisted settings record inside the install path.
	ConfigFileName = "portablesource_config.json"

	// ReposDir holds the cloned repositories.
	ReposDir = "repos"

	// EnvsDir holds one environment per repository.
	EnvsDir = "envs"

	// BaseEnvDir holds the portable base interpreter and tools.
	BaseEnvDir = "ps_env"

	// LinkFileName records the source URL of a repository installed by URL.
	LinkFileName = "link.txt"

	// OutputFormat is the default rendering of dry-run plans.
	OutputFormat = "yaml"

	// DataDirPerm is the permissions to use for data folders.
	DataDirPerm = 0o755

	// DataFilePerm is the permissions to use for data files.
	DataFilePerm = 0o644

	// ScriptFilePerm is the permissions to use for generated launchers.
	ScriptFilePerm = 0o755
)
