package ports

import (
	"time"

	"github.com/spf13/afero"
)

type Collection struct {
	SourceControl     SourceControlClient
	Inspector         RepositoryInspector
	Synchronizer      SourceSynchronizer
	Executor          PlanExecutor
	FastInstaller     PackageInstaller
	BaselineInstaller PackageInstaller
	Authority         PlanAuthorityClient
	Environments      EnvironmentService
	Launchers         LauncherGenerator
	GPUDetector       GPUDetector
	Settings          SettingsRepository
	FileSystem        afero.Fs
	Clock             func() time.Time
}
