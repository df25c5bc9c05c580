package app

import (
	"context"
	"fmt"
	"path"
	"strings"

	perrors "portablesource/pkg/errors"
	"portablesource/pkg/log"
	"portablesource/pkg/models"
)

// Source is a repository resolved from user input.
type Source struct {
	models.RepositoryDescriptor
	// Branch is cloned instead of the remote default when set.
	Branch string
	// FromURL marks installs that were given a clone URL directly.
	FromURL bool
}

// catalog answers for well-known repositories when the plan authority does
// not know them.
var catalog = map[string]Source{
	"facefusion": {
		RepositoryDescriptor: models.RepositoryDescriptor{
			Name: "facefusion", URL: "https://github.com/facefusion/facefusion",
			MainFile: "facefusion.py", ProgramArgs: "run",
		},
		Branch: "master",
	},
	"comfyui": {RepositoryDescriptor: models.RepositoryDescriptor{
		Name: "comfyui", URL: "https://github.com/comfyanonymous/ComfyUI", MainFile: "main.py",
	}},
	"stable-diffusion-webui-forge": {RepositoryDescriptor: models.RepositoryDescriptor{
		Name: "stable-diffusion-webui-forge", URL: "https://github.com/lllyasviel/stable-diffusion-webui-forge", MainFile: "webui.py",
	}},
	"liveportrait": {RepositoryDescriptor: models.RepositoryDescriptor{
		Name: "liveportrait", URL: "https://github.com/KwaiVGI/LivePortrait", MainFile: "app.py",
	}},
	"deep-live-cam": {RepositoryDescriptor: models.RepositoryDescriptor{
		Name: "deep-live-cam", URL: "https://github.com/hacksider/Deep-Live-Cam", MainFile: "run.py",
	}},
}

// IsRepositoryURL reports whether ref is a clone URL rather than a name.
func IsRepositoryURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "git@")
}

// RepoNameFromURL returns the last path segment of a clone URL without
// ".git", lowercased.
func RepoNameFromURL(url string) (string, error) {
	trimmed := strings.TrimRight(url, "/")
	if i := strings.Index(trimmed, "://"); i >= 0 {
		trimmed = trimmed[i+3:]
	}

	trimmed = strings.ReplaceAll(trimmed, ":", "/")

	if !strings.Contains(trimmed, "/") {
		return "", fmt.Errorf("%w: %s", perrors.ErrInvalidRepositoryURL, url)
	}

	name := strings.TrimSuffix(path.Base(trimmed), ".git")
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: %s", perrors.ErrInvalidRepositoryURL, url)
	}

	return strings.ToLower(name), nil
}

// resolveSource turns a URL, an owner/name shorthand or a repository name
// into a clone source.
func (a *App) resolveSource(ctx context.Context, ref string) (Source, error) {
	logger := log.GetLogger(ctx)
	ref = strings.TrimSpace(ref)

	if IsRepositoryURL(ref) {
		name, err := RepoNameFromURL(ref)
		if err != nil {
			return Source{}, err
		}

		source := Source{RepositoryDescriptor: models.RepositoryDescriptor{Name: name, URL: ref}, FromURL: true}
		if info, ok := a.ports.Authority.RepositoryInfo(ctx, name); ok {
			source.MainFile = info.MainFile
			source.ProgramArgs = info.ProgramArgs
		}

		return source, nil
	}

	if owner, repo, ok := strings.Cut(ref, "/"); ok && owner != "" && repo != "" && !strings.Contains(repo, "/") {
		url := "https://github.com/" + ref
		logger.Infof("expanding %s to %s", ref, url)

		return Source{
			RepositoryDescriptor: models.RepositoryDescriptor{Name: strings.ToLower(repo), URL: url},
			FromURL:              true,
		}, nil
	}

	name := strings.ToLower(ref)

	if info, ok := a.ports.Authority.RepositoryInfo(ctx, name); ok && info.URL != "" {
		source := Source{RepositoryDescriptor: *info}
		source.Name = name

		return source, nil
	}

	if source, ok := catalog[name]; ok {
		logger.Infof("plan authority does not know %s, using the built-in catalog", name)

		return source, nil
	}

	return Source{}, perrors.NewRepositoryNotFound(ref)
}
