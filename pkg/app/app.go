package app

import (
	"context"
	"errors"
	"fmt"

	"portablesource/pkg/environment"
	perrors "portablesource/pkg/errors"
	"portablesource/pkg/hardware"
	"portablesource/pkg/log"
	"portablesource/pkg/metrics"
	"portablesource/pkg/models"
	"portablesource/pkg/ports"
)

type Config struct {
	InstallPath string
	TargetOS    string
	// AllowStale keeps installing from the existing tree when the update
	// loop gives up.
	AllowStale bool
	// FallbackOnRemoteFailure synthesizes a local plan when a server plan
	// fails to install.
	FallbackOnRemoteFailure bool
	// GPUName overrides detection when set.
	GPUName     string
	GPUMemoryMB int
}

type App struct {
	cfg     *Config
	ports   *ports.Collection
	metrics *metrics.Metrics
}

func New(cfg *Config, ports *ports.Collection, m *metrics.Metrics) App {
	return App{
		cfg:     cfg,
		ports:   ports,
		metrics: m,
	}
}

func (a *App) layout() environment.Layout {
	return environment.Layout{InstallPath: a.cfg.InstallPath, TargetOS: a.cfg.TargetOS}
}

// hardwareProfile resolves the profile from the override, the settings
// record or detection, in that order. Detected and overridden profiles are
// stored when persist is set.
func (a *App) hardwareProfile(ctx context.Context, persist bool) (models.HardwareProfile, error) {
	logger := log.GetLogger(ctx)

	record, err := a.ports.Settings.Load()
	if err != nil {
		return models.HardwareProfile{}, fmt.Errorf("loading settings: %w", err)
	}

	var profile models.HardwareProfile

	switch {
	case a.cfg.GPUName != "":
		profile = hardware.Resolve(a.cfg.GPUName, a.cfg.GPUMemoryMB, a.cfg.TargetOS)
		logger.Infof("using GPU override %q", a.cfg.GPUName)
	case record.GPU != nil && record.GPU.TargetOS == a.cfg.TargetOS:
		return *record.GPU, nil
	default:
		info, detectErr := a.ports.GPUDetector.Detect(ctx)
		if detectErr != nil {
			logger.WithError(detectErr).Warn("GPU detection failed, assuming no accelerator")
		}

		profile = hardware.Resolve(info.Name, info.MemoryMB, a.cfg.TargetOS)
	}

	logger.WithField("backend", profile.Backend).WithField("generation", profile.Generation).
		Infof("hardware profile for %q", profile.RawName)

	if !persist {
		return profile, nil
	}

	record.GPU = &profile
	if err := a.ports.Settings.Save(record); err != nil {
		return profile, fmt.Errorf("saving settings: %w", err)
	}

	return profile, nil
}

// sync brings repoPath up to date. Exhausted retries are tolerated when
// AllowStale is set.
func (a *App) sync(ctx context.Context, url, branch, repoPath string) error {
	state, err := a.ports.Synchronizer.Sync(ctx, url, branch, repoPath)
	if err == nil {
		log.GetLogger(ctx).WithField("phase", state.Phase).Debugf("synchronized %s", repoPath)

		return nil
	}

	if errors.Is(err, perrors.ErrSyncRetriesExhausted) && a.cfg.AllowStale {
		log.GetLogger(ctx).WithError(err).Warn("continuing with the existing source tree")

		return nil
	}

	return fmt.Errorf("synchronizing %s: %w", repoPath, err)
}
