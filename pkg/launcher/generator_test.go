package launcher_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portablesource/pkg/environment"
	"portablesource/pkg/launcher"
	"portablesource/pkg/models"
	"portablesource/pkg/ports"
)

func TestGenerateUnixLauncher(t *testing.T) {
	fs := repoWith("app.py")
	gen := launcher.NewGenerator(environment.Layout{InstallPath: "/opt/ps", TargetOS: "linux"}, fs)

	path, err := gen.Generate(context.Background(), ports.LaunchSpec{
		Name:        "Demo",
		RepoPath:    "/r",
		ProgramArgs: "--listen",
		Profile:     models.HardwareProfile{Backend: models.BackendCUDA},
	})
	require.NoError(t, err)
	assert.Equal(t, "/r/start_demo.sh", path)

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String())

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	script := string(data)

	assert.True(t, strings.HasPrefix(script, "#!/usr/bin/env bash\nset -Eeuo pipefail\n"))
	assert.Contains(t, script, `INSTALL="/opt/ps"`)
	assert.Contains(t, script, `VENV="$INSTALL/envs/demo"`)
	assert.Contains(t, script, `export PATH="$BASE_PREFIX/bin:$PATH"`)
	assert.Contains(t, script, `export CUDA_HOME="/opt/ps/ps_env/CUDA"`)
	assert.Contains(t, script, `exec "$PYEXE" "app.py" --listen`)
	assert.Contains(t, script, `exec python3 "app.py" --listen`)
}

func TestGenerateUnixLauncherWithoutCUDA(t *testing.T) {
	fs := repoWith("README.md")
	gen := launcher.NewGenerator(environment.Layout{InstallPath: "/opt/ps", TargetOS: "linux"}, fs)

	path, err := gen.Generate(context.Background(), ports.LaunchSpec{Name: "demo", RepoPath: "/r"})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "CUDA")
	assert.Contains(t, string(data), "  exec \"$PYEXE\"\nelse\n  exec python3\nfi\n")
}

func TestGenerateWindowsLauncher(t *testing.T) {
	fs := repoWith("webui.py")
	gen := launcher.NewGenerator(environment.Layout{InstallPath: `C:\ps`, TargetOS: "windows"}, fs)

	path, err := gen.Generate(context.Background(), ports.LaunchSpec{
		Name:        "demo",
		RepoPath:    "/r",
		ProgramArgs: "--inbrowser",
		Profile:     models.HardwareProfile{Backend: models.BackendCUDATensorRT},
	})
	require.NoError(t, err)
	assert.Equal(t, "/r/start_demo.bat", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	script := string(data)

	assert.True(t, strings.HasPrefix(script, "@echo off\r\necho Launch demo...\r\n"))
	assert.Contains(t, script, "subst X: %ROOT_PATH%\r\n")
	assert.Contains(t, script, "set python_path=%envs_path%\\demo\r\n")
	assert.Contains(t, script, "set PATH=%cuda_bin%;%PATH%\r\n")
	assert.Contains(t, script, "\"%python_exe%\" webui.py --inbrowser\r\n")
	assert.True(t, strings.HasSuffix(script, "pause\r\n"))
}

func TestGenerateRewritesExistingLauncher(t *testing.T) {
	fs := repoWith("main.py")
	require.NoError(t, afero.WriteFile(fs, "/r/start_demo.sh", []byte("old"), 0o644))
	gen := launcher.NewGenerator(environment.Layout{InstallPath: "/opt/ps", TargetOS: "linux"}, fs)

	path, err := gen.Generate(context.Background(), ports.LaunchSpec{Name: "demo", RepoPath: "/r", MainFile: "main.py"})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"main.py"`)

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String())
}
