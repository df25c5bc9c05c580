package hardware

import (
	"fmt"
	"strings"

	"portablesource/pkg/models"
)

type generationBucket struct {
	generation models.Generation
	patterns   []string
}

// generationTable is matched top to bottom and the first bucket with a
// matching pattern wins. Ada precedes Ampere so "RTX ADA" is not taken by
// "RTX A", and precedes Blackwell so "RTX 5000 ADA GENERATION" is not taken
// by "RTX 50".
var generationTable = []generationBucket{
	{
		generation: models.GenerationAda,
		patterns: []string{
			"RTX ADA", "ADA GENERATION",
			"RTX 40", "RTX 4060", "RTX 4070", "RTX 4080", "RTX 4090",
			"L40", "L4",
		},
	},
	{
		generation: models.GenerationBlackwell,
		patterns: []string{
			"RTX 50", "RTX 5060", "RTX 5070", "RTX 5080", "RTX 5090",
		},
	},
	{
		generation: models.GenerationAmpere,
		patterns: []string{
			"RTX 30", "RTX 3060", "RTX 3070", "RTX 3080", "RTX 3090",
			"RTX A", "A40", "A100",
		},
	},
	{
		generation: models.GenerationTuring,
		patterns: []string{
			"GTX 16", "GTX 1650", "GTX 1660",
			"RTX 20", "RTX 2060", "RTX 2070", "RTX 2080", "TITAN RTX",
		},
	},
	{
		generation: models.GenerationPascal,
		patterns: []string{
			"GTX 10", "GTX 1050", "GTX 1060", "GTX 1070", "GTX 1080",
			"TITAN X", "TITAN XP",
		},
	},
}

var toolkitTable = map[models.Generation]models.ToolkitVersion{
	models.GenerationPascal:    models.Toolkit118,
	models.GenerationTuring:    models.Toolkit124,
	models.GenerationAmpere:    models.Toolkit124,
	models.GenerationAda:       models.Toolkit128,
	models.GenerationBlackwell: models.Toolkit128,
}

var computeCapabilityTable = map[models.Generation]string{
	models.GenerationPascal:    "6.1",
	models.GenerationTuring:    "7.5",
	models.GenerationAmpere:    "8.6",
	models.GenerationAda:       "8.9",
	models.GenerationBlackwell: "9.0",
}

const defaultComputeCapability = "5.0"

var (
	nvidiaTokens = []string{"NVIDIA", "GEFORCE", "QUADRO", "TESLA", "RTX", "GTX"}
	amdTokens    = []string{"AMD", "RADEON", "RX "}
	intelTokens  = []string{"INTEL", "UHD", "IRIS", "ARC"}
)

// acceleratedToolkits are the toolkit releases TensorRT is offered for.
var acceleratedToolkits = map[models.ToolkitVersion]bool{
	models.Toolkit124: true,
	models.Toolkit128: true,
}

// Generation returns the architecture family of the adapter name.
func Generation(rawName string) models.Generation {
	name := strings.ToUpper(rawName)

	for _, bucket := range generationTable {
		for _, pattern := range bucket.patterns {
			if strings.Contains(name, pattern) {
				return bucket.generation
			}
		}
	}

	return models.GenerationUnknown
}

// VendorOf infers the manufacturer from the adapter name.
func VendorOf(rawName string) models.Vendor {
	name := strings.ToUpper(rawName)

	switch {
	case containsAny(name, nvidiaTokens):
		return models.VendorNVIDIA
	case containsAny(name, amdTokens):
		return models.VendorAMD
	case containsAny(name, intelTokens):
		return models.VendorIntel
	default:
		return models.VendorUnknown
	}
}

// Resolve derives a complete hardware profile from an adapter name. It never
// fails: unrecognised names resolve to a cpu profile.
func Resolve(rawName string, memoryMB int, targetOS string) models.HardwareProfile {
	generation := Generation(rawName)
	vendor := VendorOf(rawName)

	profile := models.HardwareProfile{
		RawName:           rawName,
		Vendor:            vendor,
		Generation:        generation,
		ComputeCapability: defaultComputeCapability,
		Backend:           models.BackendCPU,
		TargetOS:          targetOS,
	}

	if memoryMB > 0 {
		profile.MemoryGB = memoryMB / 1024
	}

	if cc, ok := computeCapabilityTable[generation]; ok {
		profile.ComputeCapability = cc
	}

	toolkit, known := toolkitTable[generation]

	switch {
	case vendor == models.VendorNVIDIA && known:
		profile.ToolkitVersion = toolkit
		profile.RequiredPackages = []string{fmt.Sprintf("cudatoolkit=%s", toolkit), "cudnn"}
		profile.Backend = models.BackendCUDA

		if acceleratedToolkits[toolkit] && generation.Rank() >= models.GenerationTuring.Rank() {
			profile.SupportsAcceleratedInference = true
			profile.Backend = models.BackendCUDATensorRT
			profile.RequiredPackages = append(profile.RequiredPackages, "tensorrt")
		}
	case vendor == models.VendorAMD && targetOS == "windows":
		profile.Backend = models.BackendDirectML
	case vendor == models.VendorIntel:
		profile.Backend = models.BackendOpenVINO
	}

	return profile
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}

	return false
}
