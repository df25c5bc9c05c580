package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"portablesource/pkg/defaults"
	perrors "portablesource/pkg/errors"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
	"portablesource/pkg/planner"
	"portablesource/pkg/ports"
	"portablesource/pkg/requirements"
)

// Install provisions a repository from a clone URL, an owner/name shorthand
// or a name known to the plan authority.
func (a *App) Install(ctx context.Context, ref string) (err error) {
	logger := log.GetLogger(ctx).WithField("action", "install").WithField("run_id", uuid.NewString())
	ctx = log.WithLogger(ctx, logger)
	started := a.ports.Clock()

	defer func() {
		a.metrics.ProvisioningRun("install", err)
	}()

	source, err := a.resolveSource(ctx, ref)
	if err != nil {
		return err
	}

	logger = logger.WithField("repo", source.Name)
	ctx = log.WithLogger(ctx, logger)

	profile, err := a.hardwareProfile(ctx, true)
	if err != nil {
		return err
	}

	repoPath := a.layout().RepoPath(source.Name)
	if err := a.sync(ctx, source.URL, source.Branch, repoPath); err != nil {
		return err
	}

	if source.FromURL {
		link := filepath.Join(repoPath, defaults.LinkFileName)
		if err := afero.WriteFile(a.ports.FileSystem, link, []byte(source.URL), defaults.DataFilePerm); err != nil {
			logger.WithError(err).Warn("could not record the source link")
		}
	}

	if err := a.provision(ctx, source, profile, repoPath); err != nil {
		return err
	}

	a.ports.Authority.ReportDownload(ctx, source.Name)
	logger.Infof("installed %s in %s", source.Name, a.ports.Clock().Sub(started).Round(time.Millisecond))

	return nil
}

// Update synchronizes an installed repository, reinstalls its dependencies
// into a fresh environment and regenerates its launcher.
func (a *App) Update(ctx context.Context, name string) (err error) {
	logger := log.GetLogger(ctx).WithField("action", "update").WithField("repo", name).WithField("run_id", uuid.NewString())
	ctx = log.WithLogger(ctx, logger)

	defer func() {
		a.metrics.ProvisioningRun("update", err)
	}()

	repoPath := a.layout().RepoPath(name)
	if ok, _ := afero.DirExists(a.ports.FileSystem, repoPath); !ok {
		return perrors.NewRepositoryNotFound(name)
	}

	source := Source{RepositoryDescriptor: models.RepositoryDescriptor{Name: name}}

	url, err := a.ports.Inspector.RemoteURL(repoPath, "origin")
	if err != nil {
		return fmt.Errorf("reading origin of %s: %w", name, err)
	}

	source.URL = url

	if info, ok := a.ports.Authority.RepositoryInfo(ctx, name); ok {
		source.MainFile = info.MainFile
		source.ProgramArgs = info.ProgramArgs
	} else if known, ok := catalog[name]; ok {
		source.MainFile = known.MainFile
		source.ProgramArgs = known.ProgramArgs
	}

	profile, err := a.hardwareProfile(ctx, true)
	if err != nil {
		return err
	}

	if err := a.sync(ctx, source.URL, "", repoPath); err != nil {
		return err
	}

	return a.provision(ctx, source, profile, repoPath)
}

// provision builds the environment, installs dependencies and writes the
// launcher of a synchronized repository.
func (a *App) provision(ctx context.Context, source Source, profile models.HardwareProfile, repoPath string) error {
	env, err := a.ports.Environments.Create(ctx, source.Name)
	if err != nil {
		return err
	}

	if err := a.ports.BaselineInstaller.Ensure(ctx, env); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrEnvironmentCreate, err)
	}

	// A partial install still gets a launcher so the failed groups can be
	// fixed by hand.
	partial := a.installDependencies(ctx, source.Name, repoPath, env, profile)
	if partial != nil && !errors.Is(partial, perrors.ErrPartialInstall) {
		return partial
	}

	if _, err := a.ports.Launchers.Generate(ctx, ports.LaunchSpec{
		Name:        source.Name,
		RepoPath:    repoPath,
		RepoURL:     source.URL,
		MainFile:    source.MainFile,
		ProgramArgs: source.ProgramArgs,
		Env:         env,
		Profile:     profile,
	}); err != nil {
		return fmt.Errorf("generating launcher: %w", err)
	}

	return partial
}

// installDependencies prefers the server plan and falls back to a plan
// synthesized from the repository manifest.
func (a *App) installDependencies(ctx context.Context, name, repoPath string, env models.Environment, profile models.HardwareProfile) error {
	logger := log.GetLogger(ctx)

	plan, outcome := a.remotePlan(ctx, name)
	if plan != nil {
		err := a.ports.Executor.ExecuteRemote(ctx, plan, env)
		if err == nil {
			return nil
		}

		if !a.cfg.FallbackOnRemoteFailure {
			return err
		}

		logger.WithError(err).Warn("server plan failed, falling back to the repository manifest")
	} else {
		logger.WithField("outcome", outcome).Info("no server plan, synthesizing one from the repository manifest")
	}

	manifest, local, err := a.localPlan(ctx, repoPath, profile)
	if errors.Is(err, perrors.ErrManifestNotFound) {
		logger.Info("no dependency manifest found, skipping dependency installation")

		return nil
	}

	if err != nil {
		return err
	}

	var failed error

	if local.PackageCount() > 0 {
		if err := a.ports.Executor.ExecuteLocal(ctx, local, env); err != nil {
			logger.WithError(err).Warn("some package groups failed to install")
			failed = fmt.Errorf("%w: %w", perrors.ErrPartialInstall, err)
		}
	}

	if manifest.Source == requirements.SourcePyProject {
		if err := a.ports.BaselineInstaller.Install(ctx, env, ports.InstallRequest{
			Packages: []string{"."},
			Dir:      repoPath,
		}); err != nil {
			return fmt.Errorf("installing %s from source: %w", name, err)
		}
	}

	return failed
}

func (a *App) remotePlan(ctx context.Context, name string) (*models.RemotePlan, models.FetchOutcome) {
	if !a.ports.Authority.IsAvailable(ctx) {
		return nil, models.FetchUnavailable
	}

	return a.ports.Authority.TryFetch(ctx, name)
}

func (a *App) localPlan(ctx context.Context, repoPath string, profile models.HardwareProfile) (requirements.Manifest, *models.InstallationPlan, error) {
	manifest, err := requirements.Discover(a.ports.FileSystem, repoPath)
	if err != nil {
		return manifest, nil, err
	}

	log.GetLogger(ctx).WithField("manifest", manifest.Path).Info("using dependency manifest")

	records := requirements.Analyze(ctx, manifest.Text)

	return manifest, planner.Synthesize(records, profile), nil
}
