package app

import (
	"context"
	"fmt"

	"portablesource/pkg/hardware"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
)

// SystemReport is the detected adapter and the profile derived from it.
type SystemReport struct {
	InstallPath string                 `json:"install_path" yaml:"install_path"`
	TargetOS    string                 `json:"target_os" yaml:"target_os"`
	GPU         models.GPUInfo         `json:"gpu" yaml:"gpu"`
	Profile     models.HardwareProfile `json:"profile" yaml:"profile"`
	// Stored is the profile in the settings record, if any.
	Stored *models.HardwareProfile `json:"stored_profile,omitempty" yaml:"stored_profile,omitempty"`
}

// SystemInfo detects the adapter and resolves its profile. Nothing is
// persisted.
func (a *App) SystemInfo(ctx context.Context) (*SystemReport, error) {
	logger := log.GetLogger(ctx).WithField("action", "sysinfo")

	report := &SystemReport{InstallPath: a.cfg.InstallPath, TargetOS: a.cfg.TargetOS}

	if a.cfg.GPUName != "" {
		report.GPU = models.GPUInfo{Name: a.cfg.GPUName, MemoryMB: a.cfg.GPUMemoryMB}
	} else {
		info, err := a.ports.GPUDetector.Detect(ctx)
		if err != nil {
			logger.WithError(err).Warn("GPU detection failed")
		}

		report.GPU = info
	}

	report.Profile = hardware.Resolve(report.GPU.Name, report.GPU.MemoryMB, a.cfg.TargetOS)

	record, err := a.ports.Settings.Load()
	if err != nil {
		return report, fmt.Errorf("loading settings: %w", err)
	}

	report.Stored = record.GPU

	return report, nil
}

// CheckEnv reports the tools the provisioner relies on and whether all of
// them were found.
func (a *App) CheckEnv(ctx context.Context) ([]models.ToolStatus, bool) {
	statuses := a.ports.Environments.CheckTools(ctx)

	ok := true
	for _, status := range statuses {
		if !status.Found {
			ok = false
		}
	}

	return statuses, ok
}
