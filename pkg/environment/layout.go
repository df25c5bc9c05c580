package environment

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"portablesource/pkg/defaults"
	perrors "portablesource/pkg/errors"
)

const windows = "windows"

// Layout resolves paths inside an install path.
type Layout struct {
	InstallPath string
	TargetOS    string
}

// ResolveInstallPath expands ~ and makes path absolute. An empty path
// resolves to the default install directory.
func ResolveInstallPath(path string) (string, error) {
	if path == "" {
		path = defaults.InstallDir
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding install path %s: %w", path, err)
	}

	if expanded == "" {
		return "", perrors.ErrInstallPathRequired
	}

	return filepath.Abs(expanded)
}

// ReposDir holds cloned repositories.
func (l Layout) ReposDir() string {
	return filepath.Join(l.InstallPath, defaults.ReposDir)
}

// RepoPath is the source tree of a repository.
func (l Layout) RepoPath(name string) string {
	return filepath.Join(l.ReposDir(), name)
}

// EnvsDir holds per-repository environments.
func (l Layout) EnvsDir() string {
	return filepath.Join(l.InstallPath, defaults.EnvsDir)
}

// EnvPath is the environment root of a repository.
func (l Layout) EnvPath(name string) string {
	return filepath.Join(l.EnvsDir(), name)
}

// BaseEnvDir is the shared tool environment.
func (l Layout) BaseEnvDir() string {
	return filepath.Join(l.InstallPath, defaults.BaseEnvDir)
}

// PortablePythonDir is the interpreter tree copied into new environments on
// windows.
func (l Layout) PortablePythonDir() string {
	return filepath.Join(l.BaseEnvDir(), "python")
}

// BaseInterpreterPrefix is the shared interpreter prefix used on unix.
func (l Layout) BaseInterpreterPrefix() string {
	return filepath.Join(l.BaseEnvDir(), "mamba_env")
}

// PythonIn returns the interpreter inside an environment root.
func (l Layout) PythonIn(root string) string {
	if l.TargetOS == windows {
		return filepath.Join(root, "python.exe")
	}

	return filepath.Join(root, "bin", "python")
}

// ToolPath is where a portable tool lives inside the base environment.
func (l Layout) ToolPath(name string) string {
	if l.TargetOS == windows {
		switch name {
		case "git":
			return filepath.Join(l.BaseEnvDir(), "git", "cmd", "git.exe")
		case "python":
			return filepath.Join(l.PortablePythonDir(), "python.exe")
		default:
			return filepath.Join(l.BaseEnvDir(), name, name+".exe")
		}
	}

	return filepath.Join(l.BaseInterpreterPrefix(), "bin", name)
}

// CUDA is the portable toolkit tree under the base environment.
type CUDA struct {
	Base  string
	Bin   string
	Lib   string
	Lib64 string
}

func (l Layout) CUDA() CUDA {
	base := filepath.Join(l.BaseEnvDir(), "CUDA")
	lib := filepath.Join(base, "lib")

	return CUDA{
		Base:  base,
		Bin:   filepath.Join(base, "bin"),
		Lib:   lib,
		Lib64: filepath.Join(lib, "x64"),
	}
}
