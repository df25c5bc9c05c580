package models

// Settings is the persisted configuration record of an install path.
type Settings struct {
	Version                   string            `json:"version"`
	InstallPath               string            `json:"install_path"`
	GPU                       *HardwareProfile  `json:"gpu_config,omitempty"`
	EnvironmentVars           map[string]string `json:"environment_vars,omitempty"`
	EnvironmentSetupCompleted bool              `json:"environment_setup_completed"`
}

// FetchOutcome tells why a remote plan was or was not returned.
type FetchOutcome string

const (
	FetchFound       FetchOutcome = "found"
	FetchNotFound    FetchOutcome = "not_found"
	FetchUnavailable FetchOutcome = "unavailable"
	FetchMalformed   FetchOutcome = "malformed"
)

// ToolStatus is the result of looking up an external tool.
type ToolStatus struct {
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Found bool   `json:"found" yaml:"found"`
}
