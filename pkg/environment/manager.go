package environment

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"portablesource/pkg/defaults"
	perrors "portablesource/pkg/errors"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
	"portablesource/pkg/process"
)

// CheckedTools are reported by CheckTools in this order.
var CheckedTools = []string{"git", "python", "ffmpeg"}

// Manager creates and removes per-repository environments under
// <install>/envs.
type Manager struct {
	layout   Layout
	fs       afero.Fs
	runner   process.Runner
	lookPath func(string) (string, bool)
	environ  func() []string
}

func NewManager(layout Layout, fs afero.Fs, runner process.Runner) *Manager {
	return &Manager{
		layout:   layout,
		fs:       fs,
		runner:   runner,
		lookPath: process.LookPath,
		environ:  os.Environ,
	}
}

// Layout returns the install path layout the manager works in.
func (m *Manager) Layout() Layout {
	return m.layout
}

func (m *Manager) environment(name string) models.Environment {
	root := m.layout.EnvPath(name)

	return models.Environment{
		Name:     name,
		Root:     root,
		Python:   m.layout.PythonIn(root),
		TargetOS: m.layout.TargetOS,
	}
}

// Create implements ports.EnvironmentService.
func (m *Manager) Create(ctx context.Context, name string) (models.Environment, error) {
	logger := log.GetLogger(ctx).WithField("env", name)
	env := m.environment(name)

	if err := m.fs.RemoveAll(env.Root); err != nil {
		return env, fmt.Errorf("%w: removing %s: %w", perrors.ErrEnvironmentCreate, env.Root, err)
	}

	if err := m.fs.MkdirAll(m.layout.EnvsDir(), defaults.DataDirPerm); err != nil {
		return env, fmt.Errorf("%w: creating %s: %w", perrors.ErrEnvironmentCreate, m.layout.EnvsDir(), err)
	}

	var err error
	if m.layout.TargetOS == windows {
		err = m.copyPortablePython(ctx, env)
	} else {
		err = m.createVenv(ctx, env)
	}

	if err != nil {
		return env, fmt.Errorf("%w: %w", perrors.ErrEnvironmentCreate, err)
	}

	if _, statErr := m.fs.Stat(env.Python); statErr != nil {
		return env, fmt.Errorf("%w: python executable not found in %s", perrors.ErrEnvironmentCreate, env.Root)
	}

	logger.Infof("environment ready at %s", env.Root)

	return env, nil
}

func (m *Manager) copyPortablePython(ctx context.Context, env models.Environment) error {
	source := m.layout.PortablePythonDir()

	if _, err := m.fs.Stat(source); err != nil {
		return fmt.Errorf("%w at %s", perrors.ErrPortablePythonMissing, source)
	}

	log.GetLogger(ctx).WithField("env", env.Name).Infof("copying portable python %s to %s", source, env.Root)

	return copyTree(m.fs, source, env.Root)
}

func (m *Manager) createVenv(ctx context.Context, env models.Environment) error {
	base, ok := m.baseInterpreter()
	if !ok {
		return fmt.Errorf("%w: neither %s nor python3 on PATH", perrors.ErrPortablePythonMissing, m.layout.ToolPath("python"))
	}

	log.GetLogger(ctx).WithField("env", env.Name).Infof("creating virtual environment with %s", base)

	if _, err := m.runner.Run(ctx, process.Command{
		Name: base,
		Args: []string{"-m", "venv", env.Root},
		Env:  m.BaseEnv(),
	}); err != nil {
		return fmt.Errorf("creating virtual environment: %w", err)
	}

	return nil
}

func (m *Manager) baseInterpreter() (string, bool) {
	if bundled := m.layout.ToolPath("python"); isExecutable(m.fs, bundled) {
		return bundled, true
	}

	return m.lookPath("python3")
}

// Get implements ports.EnvironmentService.
func (m *Manager) Get(name string) (models.Environment, bool) {
	env := m.environment(name)

	if _, err := m.fs.Stat(env.Python); err != nil {
		return env, false
	}

	return env, true
}

// Remove implements ports.EnvironmentService.
func (m *Manager) Remove(name string) error {
	root := m.layout.EnvPath(name)
	if err := m.fs.RemoveAll(root); err != nil {
		return fmt.Errorf("removing environment %s: %w", root, err)
	}

	return nil
}

// CheckTools implements ports.EnvironmentService. Bundled tools win over
// the ones on PATH.
func (m *Manager) CheckTools(ctx context.Context) []models.ToolStatus {
	logger := log.GetLogger(ctx)
	statuses := make([]models.ToolStatus, 0, len(CheckedTools))

	for _, name := range CheckedTools {
		status := models.ToolStatus{Name: name}
		status.Path, status.Found = m.Tool(name)

		logger.WithField("tool", name).WithField("found", status.Found).Debugf("checked %s", status.Path)
		statuses = append(statuses, status)
	}

	return statuses
}

// Tool resolves a tool to its bundled copy, else to PATH.
func (m *Manager) Tool(name string) (string, bool) {
	if bundled := m.layout.ToolPath(name); isExecutable(m.fs, bundled) {
		return bundled, true
	}

	lookup := name
	if name == "python" && m.layout.TargetOS != windows {
		lookup = "python3"
	}

	return m.lookPath(lookup)
}

// BaseEnv implements ports.EnvironmentService.
func (m *Manager) BaseEnv() []string {
	var dirs []string

	for _, name := range CheckedTools {
		dir := filepath.Dir(m.layout.ToolPath(name))
		if m.isDir(dir) && !contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	var extra []string

	cuda := m.layout.CUDA()
	if m.isDir(cuda.Bin) {
		dirs = append(dirs, cuda.Bin)

		lib := cuda.Lib
		if m.isDir(cuda.Lib64) {
			lib = cuda.Lib64
		}

		dirs = append(dirs, lib)
		extra = append(extra,
			"CUDA_PATH="+cuda.Base,
			"CUDA_HOME="+cuda.Base,
			"CUDA_ROOT="+cuda.Base,
			"CUDA_BIN_PATH="+cuda.Bin,
			"CUDA_LIB_PATH="+lib,
		)
	}

	env := m.environ()
	if len(dirs) == 0 && len(extra) == 0 {
		return env
	}

	out := make([]string, 0, len(env)+len(extra))
	path := strings.Join(dirs, string(os.PathListSeparator))
	prepended := false

	for _, kv := range env {
		if key, value, ok := strings.Cut(kv, "="); ok && strings.EqualFold(key, "PATH") && len(dirs) > 0 {
			kv = key + "=" + path + string(os.PathListSeparator) + value
			prepended = true
		}

		out = append(out, kv)
	}

	if !prepended && len(dirs) > 0 {
		out = append(out, "PATH="+path)
	}

	return append(out, extra...)
}

func (m *Manager) isDir(path string) bool {
	ok, err := afero.DirExists(m.fs, path)

	return err == nil && ok
}

func contains(items []string, item string) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}

	return false
}

func copyTree(fs afero.Fs, source, dest string) error {
	return afero.Walk(fs, source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dest, rel)

		if info.IsDir() {
			return fs.MkdirAll(target, defaults.DataDirPerm)
		}

		return copyFile(fs, path, target, info.Mode().Perm())
	})
}

func copyFile(fs afero.Fs, source, dest string, perm os.FileMode) error {
	in, err := fs.Open(source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}

	defer in.Close()

	out, err := fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", source, err)
	}

	return nil
}
