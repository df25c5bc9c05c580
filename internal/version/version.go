package version

// Set at build time with -ldflags "-X portablesource/internal/version.Version=...".
var (
	PackageName = "portablesource"
	Version     = "undefined"
	CommitHash  = "undefined"
	BuildDate   = "undefined"
)
