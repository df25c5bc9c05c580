//go:build wireinject
// +build wireinject

package inject

import (
	"github.com/google/wire"
	"github.com/spf13/afero"

	"portablesource/internal/config"
	"portablesource/pkg/app"
	"portablesource/pkg/authority"
	"portablesource/pkg/environment"
	"portablesource/pkg/gitsync"
	"portablesource/pkg/launcher"
	"portablesource/pkg/metrics"
	"portablesource/pkg/ports"
	"portablesource/pkg/process"
)

func InitializePorts(cfg *config.Config, m *metrics.Metrics) (*ports.Collection, error) {
	wire.Build(
		process.New,
		wire.Bind(new(process.Runner), new(*process.ExecRunner)),
		afero.NewOsFs,
		environmentLayout,
		environment.NewManager,
		gitCLI,
		gitsync.NewInspector,
		wire.Bind(new(ports.SourceControlClient), new(*gitsync.CLI)),
		wire.Bind(new(ports.RepositoryInspector), new(*gitsync.Inspector)),
		syncConfig,
		gitsync.New,
		fastInstaller,
		baselineInstaller,
		executorConfig,
		packageExceptions,
		planExecutor,
		authorityConfig,
		authority.New,
		gpuDetector,
		settingsStore,
		launcher.NewGenerator,
		appPorts,
	)

	return nil, nil
}

func InitializeApp(cfg *config.Config, ports *ports.Collection, m *metrics.Metrics) app.App {
	wire.Build(app.New, appConfig)

	return app.App{}
}
