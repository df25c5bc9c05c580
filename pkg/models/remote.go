package models

import "strings"

// Remote step types.
const (
	StepTypeTorch       = "torch"
	StepTypeRegular     = "regular"
	StepTypeOnnxRuntime = "onnxruntime"
	StepTypeTensorFlow  = "tensorflow"
)

// RemotePlan is an installation plan supplied by the plan authority. It
// supersedes local synthesis whenever present.
type RemotePlan struct {
	Steps           []RemoteStep `json:"steps" yaml:"steps"`
	TorchIndexURL   string       `json:"torch_index_url,omitempty" yaml:"torch_index_url,omitempty"`
	OnnxPackageName string       `json:"onnx_package_name,omitempty" yaml:"onnx_package_name,omitempty"`
}

// RemoteStep is one ordered step of a RemotePlan.
type RemoteStep struct {
	Index        int             `json:"step" yaml:"step"`
	Type         string          `json:"type" yaml:"type"`
	Description  string          `json:"description,omitempty" yaml:"description,omitempty"`
	Packages     []RemotePackage `json:"packages" yaml:"packages"`
	InstallFlags []string        `json:"install_flags,omitempty" yaml:"install_flags,omitempty"`
}

// RemotePackage is a package entry inside a RemoteStep.
type RemotePackage struct {
	Name       string `json:"package_name" yaml:"package_name"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	IndexURL   string `json:"index_url,omitempty" yaml:"index_url,omitempty"`
	GPUSupport any    `json:"gpu_support,omitempty" yaml:"gpu_support,omitempty"`
}

// Spec renders the package as an installer argument. Versions that already
// carry ">=" or "==" are appended as is, bare versions are pinned.
func (p RemotePackage) Spec(name string) string {
	if name == "" {
		name = p.Name
	}

	switch {
	case p.Version == "":
		return name
	case strings.HasPrefix(p.Version, ">="), strings.HasPrefix(p.Version, "=="):
		return name + p.Version
	default:
		return name + "==" + p.Version
	}
}

// RepositoryDescriptor is what the authority knows about a named repository.
type RepositoryDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	MainFile    string `json:"main_file,omitempty" yaml:"main_file,omitempty"`
	ProgramArgs string `json:"program_args,omitempty" yaml:"program_args,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
