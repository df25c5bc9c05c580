package planner_test

import (
	"context"
	"testing"

	"portablesource/pkg/hardware"
	"portablesource/pkg/models"
	"portablesource/pkg/planner"
	"portablesource/pkg/requirements"

	g "github.com/onsi/gomega"
)

const manifest = `numpy>=1.20
torch==2.3.1
onnxruntime==1.18.0
gradio
torchvision
tensorflow==2.15
`

func TestSynthesize_ordersGroupsAndKeepsManifestOrder(t *testing.T) {
	g.RegisterTestingT(t)

	records := requirements.Analyze(context.Background(), manifest)
	plan := planner.Synthesize(records, hardware.Resolve("NVIDIA GeForce RTX 3080", 10240, "linux"))

	categories := []models.Category{}
	for _, group := range plan.Groups {
		categories = append(categories, group.Category)
	}

	g.Expect(categories).To(g.Equal([]models.Category{
		models.CategoryTorch, models.CategoryOnnxRuntime, models.CategoryTensorFlow, models.CategoryRegular,
	}))
	g.Expect(plan.Group(models.CategoryTorch)[0].Name).To(g.Equal("torch"))
	g.Expect(plan.Group(models.CategoryTorch)[1].Name).To(g.Equal("torchvision"))
	g.Expect(plan.Group(models.CategoryRegular)[0].Name).To(g.Equal("numpy"))
	g.Expect(plan.Group(models.CategoryRegular)[1].Name).To(g.Equal("gradio"))
	g.Expect(plan.PackageCount()).To(g.Equal(len(records)))
}

func TestSynthesize_cudaProfile(t *testing.T) {
	g.RegisterTestingT(t)

	records := requirements.Analyze(context.Background(), manifest)
	plan := planner.Synthesize(records, hardware.Resolve("NVIDIA GeForce RTX 4080", 16384, "windows"))

	g.Expect(plan.IndexURLs[models.CategoryTorch]).To(g.Equal("https://download.pytorch.org/whl/cu128"))
	g.Expect(plan.NameOverrides).To(g.HaveKeyWithValue("onnxruntime", "onnxruntime-gpu"))

	onnx := plan.Group(models.CategoryOnnxRuntime)[0]
	g.Expect(onnx.SpecAs(plan.NameOverrides[onnx.Name])).To(g.Equal("onnxruntime-gpu==1.18.0"))
}

func TestSynthesize_directMLOnWindowsAMD(t *testing.T) {
	g.RegisterTestingT(t)

	records := requirements.Analyze(context.Background(), "onnxruntime\ntorch\n")
	plan := planner.Synthesize(records, hardware.Resolve("AMD Radeon RX 6700 XT", 12288, "windows"))

	g.Expect(plan.IndexURLs[models.CategoryTorch]).To(g.Equal(planner.TorchCPUIndexURL))
	g.Expect(plan.NameOverrides).To(g.HaveKeyWithValue("onnxruntime", "onnxruntime-directml"))
}

func TestSynthesize_cpuProfileHasNoOverrides(t *testing.T) {
	g.RegisterTestingT(t)

	records := requirements.Analyze(context.Background(), "onnxruntime\nrequests\n")
	plan := planner.Synthesize(records, hardware.Resolve("", 0, "linux"))

	g.Expect(plan.NameOverrides).To(g.BeEmpty())
	g.Expect(plan.IndexURLs).NotTo(g.HaveKey(models.CategoryTorch))
	g.Expect(plan.Groups).To(g.HaveLen(2))
}

func TestSynthesize_emptyInput(t *testing.T) {
	g.RegisterTestingT(t)

	plan := planner.Synthesize(nil, hardware.Resolve("", 0, "linux"))

	g.Expect(plan.Groups).To(g.BeEmpty())
	g.Expect(plan.PackageCount()).To(g.BeZero())
}

func TestTorchIndexURL_perToolkit(t *testing.T) {
	g.RegisterTestingT(t)

	g.Expect(planner.TorchIndexURL(hardware.Resolve("GTX 1070", 0, "linux"))).To(g.HaveSuffix("/cu118"))
	g.Expect(planner.TorchIndexURL(hardware.Resolve("RTX 2060", 0, "linux"))).To(g.HaveSuffix("/cu124"))
	g.Expect(planner.TorchIndexURL(hardware.Resolve("RTX 5090", 0, "linux"))).To(g.HaveSuffix("/cu128"))
}

func TestSynthesize_mixedCaseOnnxRuntime(t *testing.T) {
	g.RegisterTestingT(t)

	records := requirements.Analyze(context.Background(), "ONNXRuntime==1.17.0\n")
	plan := planner.Synthesize(records, hardware.Resolve("NVIDIA GeForce RTX 4090", 24576, "linux"))

	onnx := plan.Group(models.CategoryOnnxRuntime)
	g.Expect(onnx).To(g.HaveLen(1))
	g.Expect(onnx[0].Name).To(g.Equal("onnxruntime"))
	g.Expect(onnx[0].OriginalLine).To(g.Equal("ONNXRuntime==1.17.0"))
	g.Expect(plan.NameOverrides).To(g.HaveKeyWithValue("onnxruntime", "onnxruntime-gpu"))
	g.Expect(onnx[0].SpecAs(plan.NameOverrides[onnx[0].Name])).To(g.Equal("onnxruntime-gpu==1.17.0"))
}
