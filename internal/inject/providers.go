package inject

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"portablesource/internal/config"
	"portablesource/pkg/app"
	"portablesource/pkg/authority"
	"portablesource/pkg/defaults"
	"portablesource/pkg/environment"
	"portablesource/pkg/executor"
	"portablesource/pkg/gitsync"
	"portablesource/pkg/hardware"
	"portablesource/pkg/installer"
	"portablesource/pkg/launcher"
	"portablesource/pkg/metrics"
	"portablesource/pkg/ports"
	"portablesource/pkg/process"
	"portablesource/pkg/settings"
)

func appConfig(cfg *config.Config) *app.Config {
	return &app.Config{
		InstallPath:             cfg.InstallPath,
		TargetOS:                cfg.TargetOS,
		AllowStale:              cfg.AllowStale,
		FallbackOnRemoteFailure: cfg.FallbackOnRemoteFailure,
		GPUName:                 cfg.GPUName,
		GPUMemoryMB:             cfg.GPUMemoryMB,
	}
}

func environmentLayout(cfg *config.Config) environment.Layout {
	return environment.Layout{InstallPath: cfg.InstallPath, TargetOS: cfg.TargetOS}
}

func syncConfig(cfg *config.Config) *gitsync.Config {
	return &gitsync.Config{MaxAttempts: cfg.GitMaxAttempts, LockDelay: defaults.LockRetryDelay}
}

func authorityConfig(cfg *config.Config) *authority.Config {
	return &authority.Config{
		BaseURL:       cfg.ServerURL,
		Timeout:       cfg.AuthorityTimeout,
		RatePerSecond: cfg.AuthorityRate,
	}
}

func executorConfig(cfg *config.Config) *executor.Config {
	return &executor.Config{TargetOS: cfg.TargetOS}
}

// gitCLI prefers the bundled git and runs it with the portable tools on PATH.
func gitCLI(runner process.Runner, manager *environment.Manager) *gitsync.CLI {
	binary, _ := manager.Tool("git")

	return gitsync.NewCLI(runner, binary, manager.BaseEnv())
}

func fastInstaller(runner process.Runner, manager *environment.Manager) *installer.UV {
	return installer.NewUV(runner, manager.BaseEnv())
}

func baselineInstaller(runner process.Runner, manager *environment.Manager) *installer.Pip {
	return installer.NewPip(runner, manager.BaseEnv())
}

func gpuDetector(cfg *config.Config, runner process.Runner) *hardware.Detector {
	return hardware.NewDetector(runner, cfg.TargetOS)
}

func settingsStore(cfg *config.Config, fs afero.Fs) *settings.Store {
	return settings.NewStore(cfg.InstallPath, fs)
}

// packageExceptions loads cfg.ExceptionsFile, or the built-in exceptions
// when it is not set.
func packageExceptions(cfg *config.Config, fs afero.Fs) (*executor.Exceptions, error) {
	if cfg.ExceptionsFile == "" {
		return executor.DefaultExceptions(), nil
	}

	data, err := afero.ReadFile(fs, cfg.ExceptionsFile)
	if err != nil {
		return nil, fmt.Errorf("reading exceptions file %s: %w", cfg.ExceptionsFile, err)
	}

	return executor.LoadExceptionsFromJSON(data)
}

func planExecutor(cfg *executor.Config, fast *installer.UV, baseline *installer.Pip, exceptions *executor.Exceptions, fs afero.Fs, m *metrics.Metrics) *executor.Executor {
	return executor.New(cfg, fast, baseline, exceptions, fs, m)
}

func appPorts(
	git *gitsync.CLI,
	inspector *gitsync.Inspector,
	synchronizer *gitsync.Synchronizer,
	exec *executor.Executor,
	fast *installer.UV,
	baseline *installer.Pip,
	authorityClient *authority.Client,
	environments *environment.Manager,
	launchers *launcher.Generator,
	detector *hardware.Detector,
	store *settings.Store,
	fs afero.Fs,
) *ports.Collection {
	return &ports.Collection{
		SourceControl:     git,
		Inspector:         inspector,
		Synchronizer:      synchronizer,
		Executor:          exec,
		FastInstaller:     fast,
		BaselineInstaller: baseline,
		Authority:         authorityClient,
		Environments:      environments,
		Launchers:         launchers,
		GPUDetector:       detector,
		Settings:          store,
		FileSystem:        fs,
		Clock:             time.Now,
	}
}
