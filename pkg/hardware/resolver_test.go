package hardware_test

import (
	"testing"

	"portablesource/pkg/hardware"
	"portablesource/pkg/models"

	g "github.com/onsi/gomega"
)

func TestResolve_ada(t *testing.T) {
	g.RegisterTestingT(t)

	profile := hardware.Resolve("NVIDIA GeForce RTX 4090", 24576, "linux")

	g.Expect(profile.Generation).To(g.Equal(models.GenerationAda))
	g.Expect(profile.ToolkitVersion).To(g.Equal(models.Toolkit128))
	g.Expect(profile.Backend).To(g.Equal(models.BackendCUDATensorRT))
	g.Expect(profile.SupportsAcceleratedInference).To(g.BeTrue())
	g.Expect(profile.ComputeCapability).To(g.Equal("8.9"))
	g.Expect(profile.MemoryGB).To(g.Equal(24))
	g.Expect(profile.RequiredPackages).To(g.Equal([]string{"cudatoolkit=12.8", "cudnn", "tensorrt"}))
}

func TestResolve_pascalHasNoAcceleratedInference(t *testing.T) {
	g.RegisterTestingT(t)

	profile := hardware.Resolve("NVIDIA GeForce GTX 1080", 8192, "windows")

	g.Expect(profile.Generation).To(g.Equal(models.GenerationPascal))
	g.Expect(profile.ToolkitVersion).To(g.Equal(models.Toolkit118))
	g.Expect(profile.Backend).To(g.Equal(models.BackendCUDA))
	g.Expect(profile.SupportsAcceleratedInference).To(g.BeFalse())
	g.Expect(profile.RequiredPackages).To(g.Equal([]string{"cudatoolkit=11.8", "cudnn"}))
}

func TestResolve_tableOrderBreaksOverlaps(t *testing.T) {
	g.RegisterTestingT(t)

	g.Expect(hardware.Generation("NVIDIA RTX A6000")).To(g.Equal(models.GenerationAmpere))
	g.Expect(hardware.Generation("NVIDIA RTX ADA 6000")).To(g.Equal(models.GenerationAda))
	g.Expect(hardware.Generation("NVIDIA RTX 5000 Ada Generation")).To(g.Equal(models.GenerationAda))
	g.Expect(hardware.Generation("NVIDIA GeForce RTX 5090")).To(g.Equal(models.GenerationBlackwell))
	g.Expect(hardware.Generation("NVIDIA L40S")).To(g.Equal(models.GenerationAda))
	g.Expect(hardware.Generation("NVIDIA TITAN Xp")).To(g.Equal(models.GenerationPascal))
	g.Expect(hardware.Generation("NVIDIA TITAN RTX")).To(g.Equal(models.GenerationTuring))
}

func TestResolve_unknownNvidiaFallsBackToCPU(t *testing.T) {
	g.RegisterTestingT(t)

	profile := hardware.Resolve("NVIDIA Tesla K80", 12288, "linux")

	g.Expect(profile.Vendor).To(g.Equal(models.VendorNVIDIA))
	g.Expect(profile.Generation).To(g.Equal(models.GenerationUnknown))
	g.Expect(profile.Backend).To(g.Equal(models.BackendCPU))
	g.Expect(profile.ToolkitVersion).To(g.Equal(models.ToolkitNone))
	g.Expect(profile.ComputeCapability).To(g.Equal("5.0"))
}

func TestResolve_amdAndIntel(t *testing.T) {
	g.RegisterTestingT(t)

	g.Expect(hardware.Resolve("AMD Radeon RX 7900 XTX", 0, "windows").Backend).To(g.Equal(models.BackendDirectML))
	g.Expect(hardware.Resolve("AMD Radeon RX 7900 XTX", 0, "linux").Backend).To(g.Equal(models.BackendCPU))
	g.Expect(hardware.Resolve("Intel(R) Arc(TM) A770", 0, "windows").Backend).To(g.Equal(models.BackendOpenVINO))
}

func TestResolve_neverFails(t *testing.T) {
	g.RegisterTestingT(t)

	for _, name := range []string{"", "   ", "garbage ☃", "Microsoft Basic Display Adapter"} {
		profile := hardware.Resolve(name, -1, "linux")

		g.Expect(profile.Backend).To(g.Equal(models.BackendCPU))
		g.Expect(profile.SupportsAcceleratedInference).To(g.BeFalse())
		g.Expect(profile.MemoryGB).To(g.Equal(0))
	}
}

func TestResolve_invariants(t *testing.T) {
	g.RegisterTestingT(t)

	names := []string{
		"GTX 1060", "GTX 1660 SUPER", "RTX 2080 Ti", "RTX 3090", "A100-SXM4-80GB",
		"RTX 4070", "RTX 5080", "Radeon RX 6800", "Intel UHD Graphics 630", "",
	}

	for _, name := range names {
		profile := hardware.Resolve(name, 8192, "windows")

		if profile.SupportsAcceleratedInference {
			g.Expect(profile.ToolkitVersion).To(g.BeElementOf(models.Toolkit124, models.Toolkit128), name)
		}

		if profile.ToolkitVersion == models.Toolkit118 {
			g.Expect(profile.SupportsAcceleratedInference).To(g.BeFalse(), name)
		}

		if profile.ToolkitVersion != models.ToolkitNone {
			g.Expect(profile.Backend.IsCUDA()).To(g.BeTrue(), name)
		}
	}
}
