package requirements_test

import (
	"context"
	"testing"

	"portablesource/pkg/models"
	"portablesource/pkg/requirements"

	g "github.com/onsi/gomega"
)

func TestAnalyze_mixedManifest(t *testing.T) {
	g.RegisterTestingT(t)

	records := requirements.Analyze(context.Background(), "torch==2.1.0+cu121\nnumpy>=1.20\nonnxruntime\n")

	g.Expect(records).To(g.HaveLen(3))

	g.Expect(records[0].Name).To(g.Equal("torch"))
	g.Expect(records[0].Category).To(g.Equal(models.CategoryTorch))
	g.Expect(records[0].Version).To(g.Equal("2.1.0+cu121"))
	g.Expect(records[0].Comparator).To(g.Equal("=="))

	g.Expect(records[1].Name).To(g.Equal("numpy"))
	g.Expect(records[1].Category).To(g.Equal(models.CategoryRegular))
	g.Expect(records[1].Version).To(g.Equal("1.20"))
	g.Expect(records[1].Comparator).To(g.Equal(">="))

	g.Expect(records[2].Name).To(g.Equal("onnxruntime"))
	g.Expect(records[2].Category).To(g.Equal(models.CategoryOnnxRuntime))
	g.Expect(records[2].Version).To(g.BeEmpty())
}

func TestAnalyze_skipsCommentsOptionsAndMalformedLines(t *testing.T) {
	g.RegisterTestingT(t)

	manifest := `# leading comment

--extra-index-url https://download.pytorch.org/whl/cu124
-r other.txt
git+https://github.com/example/pkg.git
./local/package
gradio==4.44.0   # pinned for the ui
tensorflow-gpu<2.11
`

	records := requirements.Analyze(context.Background(), manifest)

	g.Expect(records).To(g.HaveLen(2))
	g.Expect(records[0].Name).To(g.Equal("gradio"))
	g.Expect(records[0].OriginalLine).To(g.Equal("gradio==4.44.0"))
	g.Expect(records[1].Category).To(g.Equal(models.CategoryTensorFlow))
	g.Expect(records[1].Comparator).To(g.Equal("<"))
}

func TestParseLine_extrasAndMarkers(t *testing.T) {
	g.RegisterTestingT(t)

	record, ok, err := requirements.ParseLine(`uvicorn[standard, websockets]>=0.30 ; python_version >= "3.9"`)

	g.Expect(err).NotTo(g.HaveOccurred())
	g.Expect(ok).To(g.BeTrue())
	g.Expect(record.Extras).To(g.Equal([]string{"standard", "websockets"}))
	g.Expect(record.Version).To(g.Equal("0.30"))
	g.Expect(record.Spec()).To(g.Equal("uvicorn[standard,websockets]>=0.30"))
}

func TestParseLine_urlReferenceHasNoVersion(t *testing.T) {
	g.RegisterTestingT(t)

	record, ok, err := requirements.ParseLine("basicsr @ https://example.com/basicsr-1.4.2.tar.gz")

	g.Expect(err).NotTo(g.HaveOccurred())
	g.Expect(ok).To(g.BeTrue())
	g.Expect(record.Name).To(g.Equal("basicsr"))
	g.Expect(record.Version).To(g.BeEmpty())
}

func TestParseLine_renderRoundTrip(t *testing.T) {
	g.RegisterTestingT(t)

	lines := []string{
		"torch==2.1.0+cu121",
		"numpy >= 1.20",
		"opencv-python-headless",
		"insightface[gpu]==0.7.3",
		"protobuf~=3.20",
		"TorchVision!=0.16.0",
	}

	for _, line := range lines {
		first, ok, err := requirements.ParseLine(line)
		g.Expect(err).NotTo(g.HaveOccurred(), line)
		g.Expect(ok).To(g.BeTrue(), line)

		second, ok, err := requirements.ParseLine(first.Spec())
		g.Expect(err).NotTo(g.HaveOccurred(), line)
		g.Expect(ok).To(g.BeTrue(), line)

		g.Expect(second.Name).To(g.Equal(first.Name), line)
		g.Expect(second.Extras).To(g.Equal(first.Extras), line)
		g.Expect(second.Version).To(g.Equal(first.Version), line)
		g.Expect(second.Comparator).To(g.Equal(first.Comparator), line)
		g.Expect(second.Category).To(g.Equal(first.Category), line)
	}
}

func TestCategoryOf_caseInsensitive(t *testing.T) {
	g.RegisterTestingT(t)

	g.Expect(requirements.CategoryOf("TorchVision")).To(g.Equal(models.CategoryTorch))
	g.Expect(requirements.CategoryOf("onnxruntime-directml")).To(g.Equal(models.CategoryOnnxRuntime))
	g.Expect(requirements.CategoryOf("tf-nightly")).To(g.Equal(models.CategoryTensorFlow))
	g.Expect(requirements.CategoryOf("torchmetrics")).To(g.Equal(models.CategoryRegular))
}

func TestParseLine_lowercasesName(t *testing.T) {
	g.RegisterTestingT(t)

	record, ok, err := requirements.ParseLine("Pillow>=10")

	g.Expect(err).NotTo(g.HaveOccurred())
	g.Expect(ok).To(g.BeTrue())
	g.Expect(record.Name).To(g.Equal("pillow"))
	g.Expect(record.OriginalLine).To(g.Equal("Pillow>=10"))
}
