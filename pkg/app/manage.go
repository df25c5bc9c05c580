package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"portablesource/pkg/defaults"
	perrors "portablesource/pkg/errors"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
)

// Source labels shown by List.
const (
	LabelGitHub = "github"
	LabelGit    = "git"
	LabelServer = "server"
)

// InstalledRepository is an entry of <install>/repos.
type InstalledRepository struct {
	Name string `json:"name" yaml:"name"`
	// Label tells where the repository came from.
	Label string `json:"label" yaml:"label"`
	// Link is the clone URL recorded at install time, if any.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
	// HasEnvironment reports whether envs/<name> holds an interpreter.
	HasEnvironment bool `json:"has_environment" yaml:"has_environment"`
}

// Delete removes the source tree and environment of a repository.
func (a *App) Delete(ctx context.Context, name string) error {
	logger := log.GetLogger(ctx).WithField("action", "delete").WithField("repo", name)
	fs := a.ports.FileSystem
	layout := a.layout()

	repoPath := layout.RepoPath(name)
	envPath := layout.EnvPath(name)

	repoExists, _ := afero.DirExists(fs, repoPath)
	envExists, _ := afero.DirExists(fs, envPath)

	if !repoExists && !envExists {
		return perrors.NewRepositoryNotFound(name)
	}

	if repoExists {
		if err := fs.RemoveAll(repoPath); err != nil {
			return fmt.Errorf("deleting repository %s: %w", name, err)
		}
	}

	if envExists {
		if err := a.ports.Environments.Remove(name); err != nil {
			return fmt.Errorf("deleting environment for %s: %w", name, err)
		}
	}

	logger.Infof("deleted %s", name)

	return nil
}

// List returns the installed repositories sorted by name.
func (a *App) List(ctx context.Context) ([]InstalledRepository, error) {
	fs := a.ports.FileSystem
	reposDir := a.layout().ReposDir()

	if ok, _ := afero.DirExists(fs, reposDir); !ok {
		return nil, nil
	}

	entries, err := afero.ReadDir(fs, reposDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", reposDir, err)
	}

	var repos []InstalledRepository

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		repo := InstalledRepository{Name: entry.Name(), Label: LabelServer}

		link, err := afero.ReadFile(fs, filepath.Join(reposDir, entry.Name(), defaults.LinkFileName))
		if err == nil {
			repo.Link = strings.TrimSpace(string(link))
			repo.Label = LabelGit

			if strings.Contains(strings.ToLower(repo.Link), "github.com") {
				repo.Label = LabelGitHub
			}
		}

		_, repo.HasEnvironment = a.ports.Environments.Get(entry.Name())
		repos = append(repos, repo)
	}

	sort.Slice(repos, func(i, j int) bool {
		return repos[i].Name < repos[j].Name
	})

	log.GetLogger(ctx).Debugf("found %d installed repositories", len(repos))

	return repos, nil
}

// Search asks the plan authority for repositories matching query.
func (a *App) Search(ctx context.Context, query string) []models.RepositoryDescriptor {
	return a.ports.Authority.Search(ctx, query)
}
