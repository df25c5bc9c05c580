package requirements

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	perrors "portablesource/pkg/errors"
)

// ManifestSource tells where a manifest came from.
type ManifestSource string

const (
	SourceRequirementsFile ManifestSource = "requirements"
	SourcePyProject        ManifestSource = "pyproject"
)

// Manifest is the dependency list of a repository.
type Manifest struct {
	// Path is the file the text was read from.
	Path string
	// Source tells whether Path is a requirements file or pyproject.toml.
	Source ManifestSource
	// Text is in requirements-file syntax.
	Text string
}

// fixedCandidates are checked in order before any glob.
var fixedCandidates = []string{
	"requirements.txt",
	"requirements_pyp.txt",
	filepath.Join("requirements", "requirements_nvidia.txt"),
	filepath.Join("requirements", "requirements.txt"),
	filepath.Join("install", "requirements.txt"),
}

var globCandidates = []string{
	"requirements_*.txt",
	"requirements*.txt",
	filepath.Join("requirements", "requirements*.txt"),
}

type pyProject struct {
	Project struct {
		Name         string            `toml:"name"`
		Dependencies []string          `toml:"dependencies"`
		Scripts      map[string]string `toml:"scripts"`
	} `toml:"project"`
}

// Discover finds the dependency manifest of the repository at repoPath.
// pyproject.toml dependencies win over requirements files.
func Discover(fs afero.Fs, repoPath string) (Manifest, error) {
	project, err := readPyProject(fs, repoPath)
	if err != nil {
		return Manifest{}, err
	}

	if project != nil && len(project.Project.Dependencies) > 0 {
		return Manifest{
			Path:   filepath.Join(repoPath, "pyproject.toml"),
			Source: SourcePyProject,
			Text:   strings.Join(project.Project.Dependencies, "\n") + "\n",
		}, nil
	}

	path, err := findRequirementsFile(fs, repoPath)
	if err != nil {
		return Manifest{}, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	return Manifest{Path: path, Source: SourceRequirementsFile, Text: string(data)}, nil
}

func findRequirementsFile(fs afero.Fs, repoPath string) (string, error) {
	for _, candidate := range fixedCandidates {
		path := filepath.Join(repoPath, candidate)
		if isFile(fs, path) {
			return path, nil
		}
	}

	for _, pattern := range globCandidates {
		matches, err := afero.Glob(fs, filepath.Join(repoPath, pattern))
		if err != nil {
			return "", fmt.Errorf("searching %s: %w", pattern, err)
		}

		sort.Strings(matches)

		for _, match := range matches {
			if isFile(fs, match) {
				return match, nil
			}
		}
	}

	return "", perrors.ErrManifestNotFound
}

// ReadScriptModule returns the module of the preferred [project.scripts]
// entry: one mentioning both gradio and infer, else the first by name.
func ReadScriptModule(fs afero.Fs, repoPath string) (string, bool) {
	project, err := readPyProject(fs, repoPath)
	if err != nil || project == nil || len(project.Project.Scripts) == 0 {
		return "", false
	}

	names := make([]string, 0, len(project.Project.Scripts))
	for name := range project.Project.Scripts {
		names = append(names, name)
	}

	sort.Strings(names)

	chosen := names[0]

	for _, name := range names {
		text := strings.ToLower(name + " " + project.Project.Scripts[name])
		if strings.Contains(text, "gradio") && strings.Contains(text, "infer") {
			chosen = name

			break
		}
	}

	module, _, _ := strings.Cut(project.Project.Scripts[chosen], ":")

	module = strings.TrimSpace(module)

	return module, module != ""
}

func readPyProject(fs afero.Fs, repoPath string) (*pyProject, error) {
	path := filepath.Join(repoPath, "pyproject.toml")
	if !isFile(fs, path) {
		return nil, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	project := &pyProject{}
	if err := toml.Unmarshal(data, project); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return project, nil
}

func isFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)

	return err == nil && !info.IsDir()
}
