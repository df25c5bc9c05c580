package models

import "strings"

// Generation is a GPU architecture family.
type Generation string

const (
	GenerationPascal    Generation = "pascal"
	GenerationTuring    Generation = "turing"
	GenerationAmpere    Generation = "ampere"
	GenerationAda       Generation = "ada_lovelace"
	GenerationBlackwell Generation = "blackwell"
	GenerationUnknown   Generation = "unknown"
)

// Rank orders generations from oldest to newest. Unknown ranks lowest.
func (g Generation) Rank() int {
	switch g {
	case GenerationPascal:
		return 1
	case GenerationTuring:
		return 2
	case GenerationAmpere:
		return 3
	case GenerationAda:
		return 4
	case GenerationBlackwell:
		return 5
	default:
		return 0
	}
}

// ToolkitVersion is a CUDA toolkit release. The empty value means none.
type ToolkitVersion string

const (
	ToolkitNone ToolkitVersion = ""
	Toolkit118  ToolkitVersion = "11.8"
	Toolkit124  ToolkitVersion = "12.4"
	Toolkit128  ToolkitVersion = "12.8"
)

// Vendor is the GPU manufacturer inferred from the adapter name.
type Vendor string

const (
	VendorNVIDIA  Vendor = "nvidia"
	VendorAMD     Vendor = "amd"
	VendorIntel   Vendor = "intel"
	VendorUnknown Vendor = "unknown"
)

// Backend is the inference backend the environment is built for.
type Backend string

const (
	BackendCUDATensorRT Backend = "cuda+tensorrt"
	BackendCUDA         Backend = "cuda"
	BackendDirectML     Backend = "directml"
	BackendOpenVINO     Backend = "openvino"
	BackendCPU          Backend = "cpu"
)

// IsCUDA reports whether the backend runs on the CUDA toolkit.
func (b Backend) IsCUDA() bool {
	return strings.HasPrefix(string(b), string(BackendCUDA))
}

// HardwareProfile is the resolved, derived description of the host GPU.
type HardwareProfile struct {
	// RawName is the adapter name as reported by the system.
	RawName string `json:"name" yaml:"name"`
	// Vendor is the manufacturer inferred from RawName.
	Vendor Vendor `json:"vendor" yaml:"vendor"`
	// Generation is the architecture family, GenerationUnknown when no pattern matched.
	Generation Generation `json:"generation" yaml:"generation"`
	// ToolkitVersion is set only for CUDA backends.
	ToolkitVersion ToolkitVersion `json:"cuda_version,omitempty" yaml:"cuda_version,omitempty"`
	// ComputeCapability is the CUDA compute capability as "major.minor".
	ComputeCapability string `json:"compute_capability" yaml:"compute_capability"`
	// MemoryGB is the adapter memory rounded down to whole gigabytes.
	MemoryGB int `json:"memory_gb" yaml:"memory_gb"`
	// Backend is the inference backend chosen for this hardware.
	Backend Backend `json:"backend" yaml:"backend"`
	// SupportsAcceleratedInference is true when TensorRT can be installed.
	SupportsAcceleratedInference bool `json:"supports_tensorrt" yaml:"supports_tensorrt"`
	// RequiredPackages are the toolkit packages the backend needs.
	RequiredPackages []string `json:"required_packages,omitempty" yaml:"required_packages,omitempty"`
	// TargetOS is the GOOS value the profile was resolved for.
	TargetOS string `json:"target_os" yaml:"target_os"`
}

// GPUInfo is the raw output of adapter detection.
type GPUInfo struct {
	Name     string `json:"name" yaml:"name"`
	MemoryMB int    `json:"memory_mb" yaml:"memory_mb"`
	Driver   string `json:"driver,omitempty" yaml:"driver,omitempty"`
}
