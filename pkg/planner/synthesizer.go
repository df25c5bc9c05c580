package planner

import (
	"portablesource/pkg/models"
)

const torchIndexBase = "https://download.pytorch.org/whl/"

// TorchCPUIndexURL serves cpu-only torch wheels.
const TorchCPUIndexURL = torchIndexBase + "cpu"

var torchIndexTable = map[models.ToolkitVersion]string{
	models.Toolkit118: torchIndexBase + "cu118",
	models.Toolkit124: torchIndexBase + "cu124",
	models.Toolkit128: torchIndexBase + "cu128",
}

// Onnx runtime distributions.
const (
	OnnxRuntimeBase     = "onnxruntime"
	OnnxRuntimeGPU      = "onnxruntime-gpu"
	OnnxRuntimeDirectML = "onnxruntime-directml"
)

// TorchIndexURL returns the wheel index matching the profile.
func TorchIndexURL(profile models.HardwareProfile) string {
	if !profile.Backend.IsCUDA() {
		return TorchCPUIndexURL
	}

	if url, ok := torchIndexTable[profile.ToolkitVersion]; ok {
		return url
	}

	return TorchCPUIndexURL
}

// OnnxVariant returns the onnxruntime distribution for the profile.
func OnnxVariant(profile models.HardwareProfile) string {
	switch {
	case profile.Backend.IsCUDA():
		return OnnxRuntimeGPU
	case profile.TargetOS == "windows" &&
		(profile.Vendor == models.VendorAMD || profile.Vendor == models.VendorIntel):
		return OnnxRuntimeDirectML
	default:
		return OnnxRuntimeBase
	}
}

// Synthesize partitions classified records into an ordered plan for the
// profile. Records keep their manifest order inside a group and empty
// groups are dropped. It never fails.
func Synthesize(records []models.PackageRecord, profile models.HardwareProfile) *models.InstallationPlan {
	buckets := map[models.Category][]models.PackageRecord{}
	for _, record := range records {
		category := record.Category
		if category == "" {
			category = models.CategoryRegular
		}

		buckets[category] = append(buckets[category], record)
	}

	plan := &models.InstallationPlan{
		IndexURLs:     map[models.Category]string{},
		NameOverrides: map[string]string{},
	}

	for _, category := range models.CategoryOrder {
		if len(buckets[category]) == 0 {
			continue
		}

		plan.Groups = append(plan.Groups, models.PackageGroup{
			Category: category,
			Packages: buckets[category],
		})
	}

	if len(buckets[models.CategoryTorch]) > 0 {
		plan.IndexURLs[models.CategoryTorch] = TorchIndexURL(profile)
	}

	if variant := OnnxVariant(profile); variant != OnnxRuntimeBase {
		for _, record := range buckets[models.CategoryOnnxRuntime] {
			if record.Name == OnnxRuntimeBase {
				plan.NameOverrides[OnnxRuntimeBase] = variant
			}
		}
	}

	return plan
}
