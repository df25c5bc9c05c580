package launcher

import (
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"portablesource/pkg/requirements"
)

// CommonEntryFiles are tried in order before any heuristic.
var CommonEntryFiles = []string{
	"run.py", "app.py", "webui.py", "main.py", "start.py",
	"launch.py", "gui.py", "interface.py", "server.py",
}

var entryKeywords = []string{"main", "run", "start", "app"}

// Entry is what a launcher starts.
type Entry struct {
	// File is relative to the repository root.
	File string
	// Module is run with `python -m` when File is empty.
	Module string
}

// Empty reports whether neither a file nor a module was found, in which
// case the launcher opens the bare interpreter.
func (e Entry) Empty() bool {
	return e.File == "" && e.Module == ""
}

// FindEntry picks the entry point of a repository.
func FindEntry(fs afero.Fs, repoPath, suggested, repoURL string) Entry {
	if file, ok := FindMainFile(fs, repoPath, suggested, repoURL); ok {
		return Entry{File: file}
	}

	if module, ok := requirements.ReadScriptModule(fs, repoPath); ok {
		return Entry{Module: module}
	}

	return Entry{}
}

// FindMainFile returns the entry file of a repository: the suggested file,
// a common name, a lone or keyword-named python file, or <repo>.py.
func FindMainFile(fs afero.Fs, repoPath, suggested, repoURL string) (string, bool) {
	if suggested != "" && exists(fs, repoPath, suggested) {
		return suggested, true
	}

	for _, name := range CommonEntryFiles {
		if exists(fs, repoPath, name) {
			return name, true
		}
	}

	candidates := candidateFiles(fs, repoPath)
	if len(candidates) == 1 {
		return candidates[0], true
	}

	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		for _, keyword := range entryKeywords {
			if strings.Contains(lower, keyword) {
				return candidate, true
			}
		}
	}

	if name := nameFromURL(repoURL); name != "" && exists(fs, repoPath, name+".py") {
		return name + ".py", true
	}

	return "", false
}

func candidateFiles(fs afero.Fs, repoPath string) []string {
	entries, err := afero.ReadDir(fs, repoPath)
	if err != nil {
		return nil
	}

	var candidates []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".py") {
			continue
		}

		if strings.Contains(name, "test_") || name == "setup.py" ||
			strings.Contains(name, "__") || strings.Contains(name, "install") {
			continue
		}

		candidates = append(candidates, name)
	}

	sort.Strings(candidates)

	return candidates
}

func nameFromURL(repoURL string) string {
	if repoURL == "" {
		return ""
	}

	p := repoURL
	if u, err := url.Parse(repoURL); err == nil && u.Path != "" {
		p = u.Path
	}

	return strings.TrimSuffix(path.Base(strings.TrimRight(p, "/")), ".git")
}

func exists(fs afero.Fs, repoPath, name string) bool {
	ok, err := afero.Exists(fs, filepath.Join(repoPath, name))

	return err == nil && ok
}
