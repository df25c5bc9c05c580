package app

import (
	"context"
	"errors"

	"github.com/spf13/afero"

	perrors "portablesource/pkg/errors"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
)

// Plan sources.
const (
	PlanSourceRemote = "remote"
	PlanSourceLocal  = "local"
	PlanSourceNone   = "none"
)

// PlanPreview is what an install would do, without doing it.
type PlanPreview struct {
	Repository string                   `json:"repository" yaml:"repository"`
	Source     string                   `json:"source" yaml:"source"`
	Manifest   string                   `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Profile    models.HardwareProfile   `json:"profile" yaml:"profile"`
	Remote     *models.RemotePlan       `json:"remote_plan,omitempty" yaml:"remote_plan,omitempty"`
	Local      *models.InstallationPlan `json:"local_plan,omitempty" yaml:"local_plan,omitempty"`
}

// Plan previews the installation plan of a repository. The server plan is
// used when present; otherwise the plan is synthesized from the manifest of
// the installed source tree.
func (a *App) Plan(ctx context.Context, name string) (*PlanPreview, error) {
	logger := log.GetLogger(ctx).WithField("action", "plan").WithField("repo", name)
	ctx = log.WithLogger(ctx, logger)

	profile, err := a.hardwareProfile(ctx, false)
	if err != nil {
		return nil, err
	}

	preview := &PlanPreview{Repository: name, Profile: profile, Source: PlanSourceNone}

	if plan, _ := a.remotePlan(ctx, name); plan != nil {
		preview.Source = PlanSourceRemote
		preview.Remote = plan

		return preview, nil
	}

	repoPath := a.layout().RepoPath(name)
	if ok, _ := afero.DirExists(a.ports.FileSystem, repoPath); !ok {
		return nil, perrors.NewRepositoryNotFound(name)
	}

	manifest, local, err := a.localPlan(ctx, repoPath, profile)
	if errors.Is(err, perrors.ErrManifestNotFound) {
		return preview, nil
	}

	if err != nil {
		return nil, err
	}

	preview.Source = PlanSourceLocal
	preview.Manifest = manifest.Path
	preview.Local = local

	return preview, nil
}
