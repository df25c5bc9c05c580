package installer

import (
	"context"
	"fmt"

	"portablesource/pkg/defaults"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
	"portablesource/pkg/ports"
	"portablesource/pkg/process"
)

const (
	PipName = "pip"
	UVName  = "uv"
)

// Pip is the baseline installer: `python -m pip install`.
type Pip struct {
	runner process.Runner
	env    []string
}

func NewPip(runner process.Runner, env []string) *Pip {
	return &Pip{runner: runner, env: env}
}

// Name implements ports.PackageInstaller.
func (p *Pip) Name() string {
	return PipName
}

// Ensure implements ports.PackageInstaller. A missing pip is bootstrapped
// with ensurepip.
func (p *Pip) Ensure(ctx context.Context, env models.Environment) error {
	if err := p.probe(ctx, env); err == nil {
		return nil
	}

	log.GetLogger(ctx).WithField("env", env.Name).Info("pip not found in environment, bootstrapping with ensurepip")

	if _, err := p.runner.Run(ctx, process.Command{
		Name: env.Python,
		Args: []string{"-m", "ensurepip", "--upgrade"},
		Env:  p.env,
	}); err != nil {
		return fmt.Errorf("bootstrapping pip: %w", err)
	}

	return p.probe(ctx, env)
}

func (p *Pip) probe(ctx context.Context, env models.Environment) error {
	_, err := p.runner.Run(ctx, process.Command{
		Name:    env.Python,
		Args:    []string{"-m", "pip", "--version"},
		Env:     p.env,
		Timeout: defaults.ToolProbeTimeout,
	})

	return err
}

// Install implements ports.PackageInstaller.
func (p *Pip) Install(ctx context.Context, env models.Environment, req ports.InstallRequest) error {
	args := append([]string{"-m", "pip", "install"}, installArgs(req)...)

	if _, err := p.runner.Run(ctx, process.Command{Name: env.Python, Args: args, Dir: req.Dir, Env: p.env}); err != nil {
		return fmt.Errorf("pip install: %w", err)
	}

	return nil
}

// UV is the fast installer: `python -m uv pip install`, installed into the
// environment on first use.
type UV struct {
	runner   process.Runner
	env      []string
	verified map[string]bool
}

func NewUV(runner process.Runner, env []string) *UV {
	return &UV{runner: runner, env: env, verified: map[string]bool{}}
}

// Name implements ports.PackageInstaller.
func (u *UV) Name() string {
	return UVName
}

// Ensure implements ports.PackageInstaller.
func (u *UV) Ensure(ctx context.Context, env models.Environment) error {
	if u.verified[env.Root] {
		return nil
	}

	logger := log.GetLogger(ctx).WithField("env", env.Name)

	if err := u.probe(ctx, env); err != nil {
		logger.Info("uv not found in environment, installing it with pip")

		if _, err := u.runner.Run(ctx, process.Command{
			Name: env.Python,
			Args: []string{"-m", "pip", "install", "uv"},
			Env:  u.env,
		}); err != nil {
			return fmt.Errorf("installing uv: %w", err)
		}

		if err := u.probe(ctx, env); err != nil {
			return fmt.Errorf("verifying uv: %w", err)
		}
	}

	u.verified[env.Root] = true

	return nil
}

func (u *UV) probe(ctx context.Context, env models.Environment) error {
	_, err := u.runner.Run(ctx, process.Command{
		Name:    env.Python,
		Args:    []string{"-m", "uv", "--version"},
		Env:     u.env,
		Timeout: defaults.ToolProbeTimeout,
	})

	return err
}

// Install implements ports.PackageInstaller.
func (u *UV) Install(ctx context.Context, env models.Environment, req ports.InstallRequest) error {
	args := append([]string{"-m", "uv", "pip", "install", "--python", env.Python}, installArgs(req)...)

	if _, err := u.runner.Run(ctx, process.Command{Name: env.Python, Args: args, Dir: req.Dir, Env: u.env}); err != nil {
		return fmt.Errorf("uv pip install: %w", err)
	}

	return nil
}

func installArgs(req ports.InstallRequest) []string {
	var args []string

	if req.RequirementsFile != "" {
		args = append(args, "-r", req.RequirementsFile)
	} else {
		args = append(args, req.Packages...)
	}

	if req.IndexURL != "" {
		args = append(args, "--index-url", req.IndexURL)
	}

	return append(args, req.Flags...)
}
