package requirements_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "portablesource/pkg/errors"
	"portablesource/pkg/requirements"
)

const repo = "/install/repos/demo"

func writeFile(t *testing.T, fs afero.Fs, rel, content string) {
	t.Helper()

	require.NoError(t, afero.WriteFile(fs, filepath.Join(repo, rel), []byte(content), 0o644))
}

func TestDiscoverPrefersPyProjectDependencies(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "requirements.txt", "numpy\n")
	writeFile(t, fs, "pyproject.toml", `
[project]
name = "demo"
dependencies = ["torch>=2.1", "gradio"]
`)

	manifest, err := requirements.Discover(fs, repo)

	require.NoError(t, err)
	assert.Equal(t, requirements.SourcePyProject, manifest.Source)
	assert.Equal(t, "torch>=2.1\ngradio\n", manifest.Text)
}

func TestDiscoverFixedCandidateOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "requirements/requirements.txt", "b\n")
	writeFile(t, fs, "requirements/requirements_nvidia.txt", "a\n")
	writeFile(t, fs, "pyproject.toml", "[project]\nname = \"demo\"\n")

	manifest, err := requirements.Discover(fs, repo)

	require.NoError(t, err)
	assert.Equal(t, requirements.SourceRequirementsFile, manifest.Source)
	assert.Equal(t, filepath.Join(repo, "requirements", "requirements_nvidia.txt"), manifest.Path)
}

func TestDiscoverFallsBackToGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "requirements_windows.txt", "x\n")
	writeFile(t, fs, "requirements_cuda.txt", "y\n")

	manifest, err := requirements.Discover(fs, repo)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, "requirements_cuda.txt"), manifest.Path)
	assert.Equal(t, "y\n", manifest.Text)
}

func TestDiscoverNothingFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "README.md", "# demo\n")

	_, err := requirements.Discover(fs, repo)

	assert.ErrorIs(t, err, perrors.ErrManifestNotFound)
}

func TestReadScriptModulePrefersGradioInference(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "pyproject.toml", `
[project]
name = "demo"

[project.scripts]
demo-cli = "demo.cli:main"
demo-gui = "demo.gradio_infer:launch"
`)

	module, ok := requirements.ReadScriptModule(fs, repo)

	require.True(t, ok)
	assert.Equal(t, "demo.gradio_infer", module)
}
