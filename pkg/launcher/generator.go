package launcher

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/afero"

	"portablesource/pkg/defaults"
	"portablesource/pkg/environment"
	"portablesource/pkg/log"
	"portablesource/pkg/ports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type scriptData struct {
	Name        string
	InstallPath string
	RepoPath    string
	Command     string
	CUDA        *environment.CUDA
}

// Generator writes start_<repo> launchers into repository trees.
type Generator struct {
	layout environment.Layout
	fs     afero.Fs
}

func NewGenerator(layout environment.Layout, fs afero.Fs) *Generator {
	return &Generator{layout: layout, fs: fs}
}

// Generate implements ports.LauncherGenerator.
func (g *Generator) Generate(ctx context.Context, spec ports.LaunchSpec) (string, error) {
	name := strings.ToLower(spec.Name)
	logger := log.GetLogger(ctx).WithField("repo", name)

	entry := FindEntry(g.fs, spec.RepoPath, spec.MainFile, spec.RepoURL)

	switch {
	case entry.File != "":
		logger.Debugf("launcher entry file %s", entry.File)
	case entry.Module != "":
		logger.Infof("no entry file found, using pyproject script module %s", entry.Module)
	default:
		logger.Warn("no entry file or pyproject script found, launcher opens an interactive interpreter")
	}

	data := scriptData{
		Name:        name,
		InstallPath: g.layout.InstallPath,
		RepoPath:    spec.RepoPath,
	}

	if spec.Profile.Backend.IsCUDA() {
		cuda := g.layout.CUDA()
		data.CUDA = &cuda
	}

	windows := g.layout.TargetOS == "windows"

	templateName, fileName := "launcher.sh.tmpl", fmt.Sprintf("start_%s.sh", name)
	if windows {
		templateName, fileName = "launcher.bat.tmpl", fmt.Sprintf("start_%s.bat", name)
	}

	data.Command = command(entry, spec.ProgramArgs, !windows)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", templateName, err)
	}

	content := buf.String()
	if windows {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}

	path := filepath.Join(spec.RepoPath, fileName)

	if previous, err := afero.ReadFile(g.fs, path); err == nil && string(previous) != content {
		logger.Debugf("rewriting launcher:\n%s", udiff.Unified(path+" (previous)", path, string(previous), content))
	}

	if err := afero.WriteFile(g.fs, path, []byte(content), defaults.ScriptFilePerm); err != nil {
		return "", fmt.Errorf("writing launcher %s: %w", path, err)
	}

	if err := g.fs.Chmod(path, defaults.ScriptFilePerm); err != nil {
		return "", fmt.Errorf("setting launcher mode %s: %w", path, err)
	}

	logger.Infof("launcher written to %s", path)

	return path, nil
}

// command renders the interpreter arguments, with a leading space.
func command(entry Entry, args string, quoteFile bool) string {
	var parts []string

	switch {
	case entry.File != "" && quoteFile:
		parts = append(parts, fmt.Sprintf("%q", entry.File))
	case entry.File != "":
		parts = append(parts, entry.File)
	case entry.Module != "":
		parts = append(parts, "-m", entry.Module)
	default:
		return ""
	}

	if args = strings.TrimSpace(args); args != "" {
		parts = append(parts, args)
	}

	return " " + strings.Join(parts, " ")
}
